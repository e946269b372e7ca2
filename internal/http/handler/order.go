package handler

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"printapi/internal/http/middleware"
	"printapi/internal/model"
	"printapi/internal/service"
)

// CreateOrder submits a print job: multipart/form-data with a "configuration"
// JSON field, an optional "file" part and its declared metadata fields.
func CreateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.UserID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		}

		raw := c.FormValue("configuration")
		if raw == "" {
			return writeError(c, fiber.StatusBadRequest, "CONFIGURATION_REQUIRED", "configuration is required")
		}
		var cfg model.PrintConfiguration
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CONFIGURATION", "configuration is not valid JSON")
		}

		in := service.CreateOrderInput{
			Configuration: cfg,
			PaymentPhone:  c.FormValue("payment_phone"),
			PaymentMethod: c.FormValue("payment_method"),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			dpi, _ := strconv.Atoi(c.FormValue("resolution_dpi"))
			in.File = &service.FileUpload{
				Reader:        f,
				Name:          fh.Filename,
				Format:        fh.Header.Get("Content-Type"),
				Size:          fh.Size,
				ResolutionDPI: dpi,
				ColorProfile:  c.FormValue("color_profile"),
			}
		}

		res, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data":                   res.Order,
			"confirmation_scheduled": res.ConfirmationScheduled,
		})
	}
}

// ListOrders lists the actor's orders; admins may pass all=true to see every
// user's.
func ListOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.UserID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		}
		orders, err := svc.List(c.UserContext(), actor, service.ListOrdersQuery{
			IncludeDeleted: c.QueryBool("include_deleted"),
			AllUsers:       c.QueryBool("all"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": orders})
	}
}

// ListDeletedOrders is the trash view.
func ListDeletedOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.UserID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		}
		orders, err := svc.List(c.UserContext(), actor, service.ListOrdersQuery{
			DeletedOnly: true,
			AllUsers:    c.QueryBool("all"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": orders})
	}
}

// OrderStats returns live order counts per status for the admin dashboard.
func OrderStats(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": stats})
	}
}

// MyOrderStats returns the caller's own order counts per status.
func MyOrderStats(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.UserStats(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": stats})
	}
}

// PublicOrderCount exposes the shop's live order total. No authentication.
func PublicOrderCount(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := svc.PublicCount(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"count": count})
	}
}

// GetOrder returns one order.
func GetOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		order, err := svc.Get(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": order})
	}
}

// DownloadOrderFile serves one stored print file. By default the bytes are
// streamed through the API; presign=true returns a time-limited direct
// storage URL instead.
func DownloadOrderFile(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fileID := c.Params("fileID")
		if _, err := uuid.Parse(fileID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid file id format")
		}
		actor := middleware.ActorFromCtx(c)

		if c.QueryBool("presign") {
			url, err := svc.FileURL(c.UserContext(), actor, id, fileID)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(fiber.Map{"url": url})
		}

		dl, err := svc.DownloadFile(c.UserContext(), actor, id, fileID)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, dl.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", dl.Name))
		return c.SendStream(dl.Content, int(dl.Size))
	}
}

// UpdateOrderStatus sets an order's status (admin only).
func UpdateOrderStatus(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.UpdateStatus(c.UserContext(), middleware.ActorFromCtx(c), id, body.Status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"data":              res.Order,
			"notification_sent": res.NotificationSent,
		})
	}
}

// SoftDeleteOrder moves an order to the trash.
func SoftDeleteOrder(svc service.OrderService) fiber.Handler {
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

// RestoreOrder takes an order back out of the trash.
func RestoreOrder(svc service.OrderService) fiber.Handler {
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

// HardDeleteOrder permanently removes an order, its children and its stored
// files.
func HardDeleteOrder(svc service.OrderService) fiber.Handler {
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
