package repository

import (
	"context"

	"printapi/internal/model"
)

// OrderQuery filters order listings. An empty UserID with AllUsers set lists
// every user's orders (admin view). DeletedOnly selects the trash view.
type OrderQuery struct {
	UserID         string
	AllUsers       bool
	IncludeDeleted bool
	DeletedOnly    bool
}

// OrderRepository defines persistence for orders and everything an order
// owns. Create is the one multi-row operation in the system and must be
// atomic: configuration, order, files and payment either all persist or none
// do.
type OrderRepository interface {
	// Create inserts the order together with its configuration, files and
	// payment in a single transaction. The caller provides all IDs and
	// timestamps; the stored order is returned.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)

	// FindByID returns one order with its configuration, files and payment.
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// List returns orders matching the query, newest first.
	List(ctx context.Context, q OrderQuery) ([]model.Order, error)

	// SetStatus overwrites the status of one order.
	SetStatus(ctx context.Context, id string, status model.OrderStatus) error

	// SetDeleted flips the soft-delete flag.
	SetDeleted(ctx context.Context, id string, deleted bool) error

	// HardDelete permanently removes the order and cascades to its
	// configuration, files and payment rows.
	HardDelete(ctx context.Context, id string) error

	// CountByStatus returns the number of live orders per status.
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int, error)

	// CountByStatusFor narrows CountByStatus to one user's orders.
	CountByStatusFor(ctx context.Context, userID string) (map[model.OrderStatus]int, error)

	// CountActive returns the total number of live orders across all users.
	CountActive(ctx context.Context) (int, error)
}
