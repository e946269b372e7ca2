package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"printapi/internal/config"
	"printapi/internal/database"
	"printapi/internal/database/migration"
	handlers "printapi/internal/http/handler"
	"printapi/internal/http/middleware"
	"printapi/internal/jobs"
	"printapi/internal/mail"
	"printapi/internal/otel"
	"printapi/internal/payment"
	"printapi/internal/repository/postgres"
	"printapi/internal/service"
	"printapi/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local

	// Tracing: exported via OTLP, degrades to noop when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	mailer := mail.NewSendGrid(cfg.SendGrid)
	gateway := payment.NewStub()

	// Initialize repositories and services
	orderRepo := postgres.NewOrderPostgres(db)
	productRepo := postgres.NewProductPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	notifRepo := postgres.NewNotificationPostgres(db)
	jobRepo := postgres.NewJobPostgres(db)

	orderSvc := service.NewOrderService(
		orderRepo, productRepo, userRepo, notifRepo, jobRepo,
		objStore, gateway, mailer,
		time.Duration(cfg.Worker.ConfirmationDelaySec)*time.Second,
	)
	productSvc := service.NewProductService(productRepo)
	notifSvc := service.NewNotificationService(notifRepo, userRepo)

	worker := jobs.NewWorker(
		jobRepo, orderRepo, userRepo, notifRepo, mailer,
		time.Duration(cfg.Worker.PollIntervalSec)*time.Second,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Actor middleware resolves the gateway-provided identity headers
	app.Use(middleware.Actor())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, orderSvc, productSvc, notifSvc)

	addr := ":" + cfg.Port

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(addr)
	})
	g.Go(func() error {
		return worker.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("server exited: %v", err)
	}
}
