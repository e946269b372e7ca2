package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// NotificationService defines the use cases over the notification store.
// Rows are append-only: content never changes after Send, only the read and
// deleted flags do.
type NotificationService interface {
	Send(ctx context.Context, actor model.Actor, recipientID, message string) (*model.Notification, error)
	ListFor(ctx context.Context, actor model.Actor, includeDeleted bool) ([]model.Notification, error)
	ListDeleted(ctx context.Context, actor model.Actor) ([]model.Notification, error)
	ListSentBy(ctx context.Context, actor model.Actor) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, actor model.Actor) (int64, error)
	UnreadCount(ctx context.Context, actor model.Actor) (int, error)
	SoftDelete(ctx context.Context, actor model.Actor, id string) error
	Restore(ctx context.Context, actor model.Actor, id string) error
	HardDelete(ctx context.Context, actor model.Actor, id string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{notifications: notifications, users: users}
}

// Send validates the recipient and message and appends a new row. There is
// no deduplication: sending twice produces two notifications.
func (s *notificationService) Send(ctx context.Context, actor model.Actor, recipientID, message string) (*model.Notification, error) {
	if recipientID == "" {
		return nil, ErrRecipientRequired
	}
	if message == "" {
		return nil, ErrMessageRequired
	}
	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipient %s: %w", recipientID, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	return s.notifications.Create(ctx, &model.Notification{
		ID:          uuid.NewString(),
		SenderID:    actor.UserID,
		RecipientID: recipientID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	})
}

// ListFor returns the actor's inbox, newest first.
func (s *notificationService) ListFor(ctx context.Context, actor model.Actor, includeDeleted bool) ([]model.Notification, error) {
	if actor.UserID == "" {
		return nil, ErrActorRequired
	}
	return s.notifications.List(ctx, repository.NotificationQuery{
		RecipientID:    actor.UserID,
		IncludeDeleted: includeDeleted,
	})
}

// ListDeleted returns the trash view: the actor's own soft-deleted rows, or
// every user's for an admin.
func (s *notificationService) ListDeleted(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	if actor.UserID == "" {
		return nil, ErrActorRequired
	}
	q := repository.NotificationQuery{RecipientID: actor.UserID, DeletedOnly: true}
	if actor.IsAdmin() {
		q.RecipientID = ""
	}
	return s.notifications.List(ctx, q)
}

// ListSentBy returns what the actor sent, excluding self-addressed rows so
// the sent view does not echo the inbox.
func (s *notificationService) ListSentBy(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	if actor.UserID == "" {
		return nil, ErrActorRequired
	}
	return s.notifications.ListSentBy(ctx, actor.UserID)
}

// MarkAllRead flips every unread notification of the actor to read.
func (s *notificationService) MarkAllRead(ctx context.Context, actor model.Actor) (int64, error) {
	if actor.UserID == "" {
		return 0, ErrActorRequired
	}
	return s.notifications.MarkAllRead(ctx, actor.UserID)
}

// UnreadCount counts the actor's live unread notifications. Immediately
// after MarkAllRead it returns zero.
func (s *notificationService) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	if actor.UserID == "" {
		return 0, ErrActorRequired
	}
	return s.notifications.CountUnread(ctx, actor.UserID)
}

// SoftDelete moves a notification to the trash.
func (s *notificationService) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	n, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.notifications.SetDeleted(ctx, n.ID, true)
}

// Restore takes a notification back out of the trash.
func (s *notificationService) Restore(ctx context.Context, actor model.Actor, id string) error {
	n, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.notifications.SetDeleted(ctx, n.ID, false)
}

// HardDelete permanently removes a notification.
func (s *notificationService) HardDelete(ctx context.Context, actor model.Actor, id string) error {
	n, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.notifications.HardDelete(ctx, n.ID)
}

// authorize loads a notification and checks the actor may mutate it: the
// recipient or an admin. Anyone else gets ErrNotFound, the same answer as
// for a missing row.
func (s *notificationService) authorize(ctx context.Context, actor model.Actor, id string) (*model.Notification, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(n.RecipientID) {
		return nil, ErrNotFound
	}
	return n, nil
}
