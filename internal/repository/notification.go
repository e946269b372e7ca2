package repository

import (
	"context"

	"printapi/internal/model"
)

// NotificationQuery filters notification listings. An empty RecipientID
// selects every recipient; the service layer only permits that for admins.
type NotificationQuery struct {
	RecipientID    string
	IncludeDeleted bool
	DeletedOnly    bool
}

// NotificationRepository defines persistence for the append-only
// notification store. Message content is never updated; only the read and
// deleted flags change after insert.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// List returns notifications matching the query, newest first.
	List(ctx context.Context, q NotificationQuery) ([]model.Notification, error)

	// ListSentBy returns notifications authored by senderID, newest first,
	// excluding rows the sender addressed to themselves.
	ListSentBy(ctx context.Context, senderID string) ([]model.Notification, error)

	// MarkAllRead flips every unread notification of the recipient to read
	// and reports how many rows changed.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)

	// CountUnread counts live unread notifications for the recipient.
	CountUnread(ctx context.Context, recipientID string) (int, error)

	SetDeleted(ctx context.Context, id string, deleted bool) error
	HardDelete(ctx context.Context, id string) error
}
