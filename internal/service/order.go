package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"printapi/internal/jobs"
	"printapi/internal/mail"
	"printapi/internal/model"
	"printapi/internal/payment"
	"printapi/internal/pricing"
	"printapi/internal/repository"
	"printapi/internal/storage"
)

// FileUpload carries the declared metadata and content stream of one
// uploaded print file.
type FileUpload struct {
	Reader        io.Reader
	Name          string
	Format        string
	Size          int64
	ResolutionDPI int
	ColorProfile  string
}

// CreateOrderInput is everything a caller supplies at checkout. The total is
// never part of the input; it is always computed from the configuration.
type CreateOrderInput struct {
	Configuration model.PrintConfiguration
	File          *FileUpload
	PaymentPhone  string
	PaymentMethod string
}

// CreateOrderResult reports the created order plus whether the deferred
// confirmation could be scheduled. A false ConfirmationScheduled is a
// partial success: the order exists, only the delayed notification is lost.
type CreateOrderResult struct {
	Order                 *model.Order
	ConfirmationScheduled bool
}

// StatusUpdateResult reports a durable status change. NotifyErr carries a
// failed side-effect dispatch; the status write itself has already been
// committed when it is set.
type StatusUpdateResult struct {
	Order            *model.Order
	NotificationSent bool
	NotifyErr        error
}

// ListOrdersQuery selects which orders to list. AllUsers is honored only for
// admins.
type ListOrdersQuery struct {
	IncludeDeleted bool
	DeletedOnly    bool
	AllUsers       bool
}

// FileDownload is an opened stored print file ready to stream to the client.
// The caller owns Content and must close it.
type FileDownload struct {
	Content     io.ReadCloser
	Name        string
	Size        int64
	ContentType string
}

// OrderService defines the order aggregate use cases: transactional
// creation, listing, file downloads, the lifecycle state machine and the
// delete flows.
type OrderService interface {
	Create(ctx context.Context, actor model.Actor, in CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	List(ctx context.Context, actor model.Actor, q ListOrdersQuery) ([]model.Order, error)
	DownloadFile(ctx context.Context, actor model.Actor, orderID, fileID string) (*FileDownload, error)
	FileURL(ctx context.Context, actor model.Actor, orderID, fileID string) (string, error)
	UpdateStatus(ctx context.Context, actor model.Actor, id, rawStatus string) (*StatusUpdateResult, error)
	SoftDelete(ctx context.Context, actor model.Actor, id string) error
	Restore(ctx context.Context, actor model.Actor, id string) error
	HardDelete(ctx context.Context, actor model.Actor, id string) error
	Stats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error)
	UserStats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error)
	PublicCount(ctx context.Context) (int, error)
}

type orderService struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	jobs          repository.JobRepository
	store         storage.Storage
	gateway       payment.Gateway
	mailer        mail.Mailer

	confirmationDelay time.Duration
}

// NewOrderService constructs an OrderService. confirmationDelay is how long
// after checkout the deferred confirmation becomes due.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	jobRepo repository.JobRepository,
	store storage.Storage,
	gateway payment.Gateway,
	mailer mail.Mailer,
	confirmationDelay time.Duration,
) OrderService {
	return &orderService{
		orders:            orders,
		products:          products,
		users:             users,
		notifications:     notifications,
		jobs:              jobRepo,
		store:             store,
		gateway:           gateway,
		mailer:            mailer,
		confirmationDelay: confirmationDelay,
	}
}

// Create validates, prices and persists an order as one atomic unit:
// configuration, order, optional file and payment either all persist or none
// do. The file is validated before any byte is stored, and stored bytes are
// rolled back if the database transaction fails. Scheduling the deferred
// confirmation happens after commit and never undoes the order.
func (s *orderService) Create(ctx context.Context, actor model.Actor, in CreateOrderInput) (*CreateOrderResult, error) {
	if actor.UserID == "" {
		return nil, ErrActorRequired
	}

	cfg := in.Configuration
	cfg.ID = uuid.NewString()
	cfg.CreatedAt = time.Now().UTC()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var product *model.Product
	if cfg.ProductID != "" {
		p, err := s.products.FindByID(ctx, cfg.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("product %s: %w", cfg.ProductID, ErrNotFound)
			}
			return nil, fmt.Errorf("resolve product: %w", err)
		}
		product = p
	}

	if in.File != nil {
		if err := model.ValidateFile(in.File.Name, in.File.ResolutionDPI, in.File.ColorProfile); err != nil {
			return nil, err
		}
	}

	// The price is computed here and nowhere else. A configuration the
	// calculator cannot price exactly still becomes an order, at the
	// fallback amount; this is the one place degradation is coerced.
	total := pricing.QuoteOrFallback(&cfg, product)

	orderID := uuid.NewString()
	now := time.Now().UTC()

	var files []model.File
	var storedKey string
	if in.File != nil {
		ext := filepath.Ext(in.File.Name)
		key := filepath.ToSlash(filepath.Join("orders", orderID, uuid.NewString()+ext))
		info, err := s.store.Put(ctx, key, in.File.Reader, storage.PutObjectOptions{
			Size:        in.File.Size,
			ContentType: contentTypeFor(ext),
			Metadata:    map[string]string{"original-filename": in.File.Name},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		storedKey = info.Key
		files = append(files, model.File{
			ID:            uuid.NewString(),
			OrderID:       orderID,
			Name:          in.File.Name,
			Format:        in.File.Format,
			Size:          info.Size,
			ResolutionDPI: in.File.ResolutionDPI,
			ColorProfile:  in.File.ColorProfile,
			StoragePath:   info.Key,
			CreatedAt:     now,
		})
	}

	initiation, err := s.gateway.Initiate(ctx, in.PaymentPhone, total, orderID)
	if err != nil {
		s.rollbackStored(ctx, storedKey)
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	order := &model.Order{
		ID:            orderID,
		UserID:        actor.UserID,
		Configuration: &cfg,
		Status:        model.StatusPending,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		Files:         files,
		Payment: &model.Payment{
			ID:             uuid.NewString(),
			OrderID:        orderID,
			Phone:          in.PaymentPhone,
			Amount:         total,
			TransactionRef: initiation.TransactionID,
			Status:         initiation.Status,
			CreatedAt:      now,
		},
		CreatedAt: now,
	}

	stored, err := s.orders.Create(ctx, order)
	if err != nil {
		s.rollbackStored(ctx, storedKey)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	result := &CreateOrderResult{Order: stored}
	job, err := jobs.NewOrderConfirmation(orderID, now.Add(s.confirmationDelay))
	if err == nil {
		err = s.jobs.Enqueue(ctx, job)
	}
	result.ConfirmationScheduled = err == nil
	return result, nil
}

// Get returns one order with its total repriced from the configuration.
// Non-owners that are not admins get ErrNotFound whether or not the order
// exists.
func (s *orderService) Get(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	s.refreshTotal(ctx, order)
	return order, nil
}

// load fetches an order and enforces ownership, without repricing.
func (s *orderService) load(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(order.UserID) {
		return nil, ErrNotFound
	}
	return order, nil
}

// refreshTotal reprices an order from its configuration. The stored total is
// a snapshot taken at checkout; catalog prices may have moved since, so
// reads serve the recomputed amount and keep the snapshot only when the
// configuration can no longer be priced exactly.
func (s *orderService) refreshTotal(ctx context.Context, order *model.Order) {
	cfg := order.Configuration
	if cfg == nil {
		return
	}
	var product *model.Product
	if cfg.ProductID != "" {
		if p, err := s.products.FindByID(ctx, cfg.ProductID); err == nil {
			product = p
		}
	}
	total, err := pricing.Quote(cfg, product)
	if err != nil {
		return
	}
	order.TotalAmount = total
}

// List returns orders newest first, each repriced the way Get reprices.
// Non-admins always see only their own.
func (s *orderService) List(ctx context.Context, actor model.Actor, q ListOrdersQuery) ([]model.Order, error) {
	rq := repository.OrderQuery{
		UserID:         actor.UserID,
		IncludeDeleted: q.IncludeDeleted,
		DeletedOnly:    q.DeletedOnly,
	}
	if q.AllUsers && actor.IsAdmin() {
		rq.AllUsers = true
		rq.UserID = ""
	}
	orders, err := s.orders.List(ctx, rq)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.refreshTotal(ctx, &orders[i])
	}
	return orders, nil
}

// presignExpiry bounds how long a direct download link stays valid.
const presignExpiry = 15 * time.Minute

// DownloadFile streams a stored print file. Access follows the order itself:
// owner or admin, anyone else gets ErrNotFound.
func (s *orderService) DownloadFile(ctx context.Context, actor model.Actor, orderID, fileID string) (*FileDownload, error) {
	file, err := s.findFile(ctx, actor, orderID, fileID)
	if err != nil {
		return nil, err
	}
	content, info, err := s.store.Get(ctx, file.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = contentTypeFor(filepath.Ext(file.Name))
	}
	return &FileDownload{
		Content:     content,
		Name:        file.Name,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

// FileURL returns a time-limited link that downloads the file straight from
// object storage, keeping large transfers out of this process.
func (s *orderService) FileURL(ctx context.Context, actor model.Actor, orderID, fileID string) (string, error) {
	file, err := s.findFile(ctx, actor, orderID, fileID)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, file.StoragePath, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign stored file: %w", err)
	}
	return url, nil
}

func (s *orderService) findFile(ctx context.Context, actor model.Actor, orderID, fileID string) (*model.File, error) {
	order, err := s.load(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	for i := range order.Files {
		if order.Files[i].ID == fileID {
			return &order.Files[i], nil
		}
	}
	return nil, ErrNotFound
}

// UpdateStatus sets an order's status. The enum is validated; beyond that
// any of the six values may be set directly — the permissive admin override
// of the original workflow is kept deliberately. Entering PRINTING or DONE
// dispatches exactly one notification; a dispatch failure is reported in the
// result but the committed status change stands.
func (s *orderService) UpdateStatus(ctx context.Context, actor model.Actor, id, rawStatus string) (*StatusUpdateResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotFound
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	status, err := model.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set status: %w", err)
	}
	order.Status = status

	result := &StatusUpdateResult{Order: order}
	subject, body, notify := statusMessage(status, order.ID)
	if notify {
		result.NotifyErr = s.dispatchStatusNotice(ctx, order, subject, body)
		result.NotificationSent = result.NotifyErr == nil
	}
	return result, nil
}

// statusMessage returns the notification content tied to a transition.
// Only PRINTING and DONE carry side effects.
func statusMessage(status model.OrderStatus, orderID string) (subject, body string, notify bool) {
	switch status {
	case model.StatusPrinting:
		return "Your order is being printed",
			fmt.Sprintf("Your order %s is now printing.", orderID), true
	case model.StatusDone:
		return "Your order is ready",
			fmt.Sprintf("Your order %s is printed and ready for delivery.", orderID), true
	default:
		return "", "", false
	}
}

func (s *orderService) dispatchStatusNotice(ctx context.Context, order *model.Order, subject, body string) error {
	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("load order owner: %w", err)
	}
	if _, err := s.notifications.Create(ctx, &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: owner.ID,
		Message:     body,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	if err := s.mailer.Send(ctx, owner.Email, subject, body); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// SoftDelete flags the order as deleted without touching its children.
func (s *orderService) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.orders.SetDeleted(ctx, order.ID, true)
}

// Restore reverses a soft delete.
func (s *orderService) Restore(ctx context.Context, actor model.Actor, id string) error {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.orders.SetDeleted(ctx, order.ID, false)
}

// HardDelete permanently removes the order, its database children and its
// stored file objects. Storage is cleared first: a dangling database row is
// recoverable, an orphaned object is not.
func (s *orderService) HardDelete(ctx context.Context, actor model.Actor, id string) error {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, f := range order.Files {
		if err := s.store.Delete(ctx, f.StoragePath); err != nil {
			return fmt.Errorf("delete stored file: %w", err)
		}
	}
	return s.orders.HardDelete(ctx, order.ID)
}

// Stats returns live order counts per status, zero-filled, for the admin
// dashboard.
func (s *orderService) Stats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotFound
	}
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return zeroFillStatuses(counts), nil
}

// UserStats is the per-customer dashboard: the actor's own live order counts
// per status, zero-filled.
func (s *orderService) UserStats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error) {
	if actor.UserID == "" {
		return nil, ErrActorRequired
	}
	counts, err := s.orders.CountByStatusFor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return zeroFillStatuses(counts), nil
}

// PublicCount is the anonymous storefront counter: how many live orders the
// shop has taken.
func (s *orderService) PublicCount(ctx context.Context) (int, error) {
	return s.orders.CountActive(ctx)
}

func zeroFillStatuses(counts map[model.OrderStatus]int) map[model.OrderStatus]int {
	if counts == nil {
		counts = make(map[model.OrderStatus]int)
	}
	for _, st := range model.OrderStatuses {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts
}

func (s *orderService) rollbackStored(ctx context.Context, key string) {
	if key == "" {
		return
	}
	// Best effort: a leaked object is preferable to failing the error path.
	_ = s.store.Delete(ctx, key)
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
