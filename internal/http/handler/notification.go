package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"printapi/internal/http/middleware"
	"printapi/internal/service"
)

// SendNotification appends a new notification for a recipient.
func SendNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RecipientID string `json:"recipient_id"`
			Message     string `json:"message"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		n, err := svc.Send(c.UserContext(), middleware.ActorFromCtx(c), body.RecipientID, body.Message)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

// ListNotifications returns the actor's inbox, newest first.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListFor(c.UserContext(), middleware.ActorFromCtx(c), c.QueryBool("include_deleted"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// ListSentNotifications returns what the actor sent to others.
func ListSentNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListSentBy(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// ListDeletedNotifications is the trash view.
func ListDeletedNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListDeleted(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// UnreadNotificationCount counts the actor's live unread notifications.
func UnreadNotificationCount(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := svc.UnreadCount(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"count": count})
	}
}

// MarkAllNotificationsRead flips every unread notification of the actor to read.
func MarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		updated, err := svc.MarkAllRead(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"updated": updated})
	}
}

// SoftDeleteNotification moves a notification to the trash.
func SoftDeleteNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.SoftDelete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RestoreNotification takes a notification back out of the trash.
func RestoreNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Restore(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HardDeleteNotification permanently removes a notification.
func HardDeleteNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.HardDelete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
