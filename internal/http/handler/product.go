package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"printapi/internal/http/middleware"
	"printapi/internal/model"
	"printapi/internal/service"
)

// ListProducts returns a paginated catalog page with limit & offset.
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchProducts matches products by name or category.
func SearchProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// GetProduct returns one product by ID.
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// CreateProduct adds a catalog entry (admin only).
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Product
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.Create(c.UserContext(), middleware.ActorFromCtx(c), &p)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdateProduct overwrites a catalog entry (admin only).
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var p model.Product
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p.ID = id
		updated, err := svc.Update(c.UserContext(), middleware.ActorFromCtx(c), &p)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteProduct removes a catalog entry (admin only).
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
