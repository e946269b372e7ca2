package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"printapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic: parse, delegate, translate.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	orderSvc service.OrderService,
	productSvc service.ProductService,
	notifSvc service.NotificationService,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/products", ListProducts(productSvc))
	app.Get("/products/search", SearchProducts(productSvc))
	app.Get("/products/:id", GetProduct(productSvc))
	app.Post("/products", CreateProduct(productSvc))
	app.Put("/products/:id", UpdateProduct(productSvc))
	app.Delete("/products/:id", DeleteProduct(productSvc))

	app.Post("/orders", CreateOrder(orderSvc))
	app.Get("/orders", ListOrders(orderSvc))
	app.Get("/orders/deleted", ListDeletedOrders(orderSvc))
	app.Get("/orders/stats", OrderStats(orderSvc))
	app.Get("/orders/stats/me", MyOrderStats(orderSvc))
	app.Get("/orders/count", PublicOrderCount(orderSvc))
	app.Get("/orders/:id", GetOrder(orderSvc))
	app.Get("/orders/:id/files/:fileID", DownloadOrderFile(orderSvc))
	app.Patch("/orders/:id/status", UpdateOrderStatus(orderSvc))
	app.Delete("/orders/:id", SoftDeleteOrder(orderSvc))
	app.Post("/orders/:id/restore", RestoreOrder(orderSvc))
	app.Delete("/orders/:id/permanent", HardDeleteOrder(orderSvc))

	app.Post("/notifications", SendNotification(notifSvc))
	app.Get("/notifications", ListNotifications(notifSvc))
	app.Get("/notifications/sent", ListSentNotifications(notifSvc))
	app.Get("/notifications/deleted", ListDeletedNotifications(notifSvc))
	app.Get("/notifications/unread/count", UnreadNotificationCount(notifSvc))
	app.Post("/notifications/read-all", MarkAllNotificationsRead(notifSvc))
	app.Delete("/notifications/:id", SoftDeleteNotification(notifSvc))
	app.Post("/notifications/:id/restore", RestoreNotification(notifSvc))
	app.Delete("/notifications/:id/permanent", HardDeleteNotification(notifSvc))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
