package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, sender_id, recipient_id, message, read, deleted, created_at`

// Create inserts a new notification row. There is no deduplication; every
// send produces a row.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, sender_id, recipient_id, message, read, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + notificationColumns
	row := r.db.QueryRowContext(ctx, q,
		n.ID, nullString(n.SenderID), n.RecipientID, n.Message, n.Read, n.Deleted, n.CreatedAt,
	)
	return scanNotification(row)
}

// FindByID fetches a single notification by its ID.
func (r *NotificationPostgres) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, q, id))
}

// List returns notifications matching the query, newest first.
func (r *NotificationPostgres) List(ctx context.Context, q repository.NotificationQuery) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE 1=1`
	args := []any{}
	if q.RecipientID != "" {
		args = append(args, q.RecipientID)
		query += fmt.Sprintf(" AND recipient_id = $%d", len(args))
	}
	if q.DeletedOnly {
		query += " AND deleted = TRUE"
	} else if !q.IncludeDeleted {
		query += " AND deleted = FALSE"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// ListSentBy returns notifications authored by senderID, excluding rows the
// sender addressed to themselves.
func (r *NotificationPostgres) ListSentBy(ctx context.Context, senderID string) ([]model.Notification, error) {
	const q = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE sender_id = $1 AND recipient_id <> $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, senderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// MarkAllRead flips every unread notification of the recipient to read in a
// single statement, so a following CountUnread sees zero.
func (r *NotificationPostgres) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	const q = `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`
	res, err := r.db.ExecContext(ctx, q, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUnread counts live unread notifications for the recipient.
func (r *NotificationPostgres) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE AND deleted = FALSE`
	var n int
	if err := r.db.QueryRowContext(ctx, q, recipientID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetDeleted flips the soft-delete flag.
func (r *NotificationPostgres) SetDeleted(ctx context.Context, id string, deleted bool) error {
	const q = `UPDATE notifications SET deleted = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, deleted, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// HardDelete permanently removes a notification.
func (r *NotificationPostgres) HardDelete(ctx context.Context, id string) error {
	const q = `DELETE FROM notifications WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanNotification(row rowScanner) (*model.Notification, error) {
	var n model.Notification
	var sender sql.NullString
	if err := row.Scan(
		&n.ID, &sender, &n.RecipientID, &n.Message, &n.Read, &n.Deleted, &n.CreatedAt,
	); err != nil {
		return nil, err
	}
	n.SenderID = sender.String
	return &n, nil
}
