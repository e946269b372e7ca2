package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"printapi/internal/model"
)

func TestActor(t *testing.T) {
	app := fiber.New()
	app.Use(Actor())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(ActorFromCtx(c))
	})

	t.Run("anonymous request yields empty actor", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("user headers resolve to user actor", func(t *testing.T) {
		app2 := fiber.New()
		app2.Use(Actor())

		var got model.Actor
		app2.Get("/whoami", func(c *fiber.Ctx) error {
			got = ActorFromCtx(c)
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(UserIDHeader, "user-1")
		app2.Test(req)

		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, model.RoleUser, got.Role)
		assert.False(t, got.IsAdmin())
	})

	t.Run("admin role header is honored", func(t *testing.T) {
		app2 := fiber.New()
		app2.Use(Actor())

		var got model.Actor
		app2.Get("/whoami", func(c *fiber.Ctx) error {
			got = ActorFromCtx(c)
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(UserIDHeader, "admin-1")
		req.Header.Set(RoleHeader, string(model.RoleAdmin))
		app2.Test(req)

		assert.True(t, got.IsAdmin())
	})

	t.Run("unknown role falls back to user", func(t *testing.T) {
		app2 := fiber.New()
		app2.Use(Actor())

		var got model.Actor
		app2.Get("/whoami", func(c *fiber.Ctx) error {
			got = ActorFromCtx(c)
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(UserIDHeader, "user-2")
		req.Header.Set(RoleHeader, "SUPERUSER")
		app2.Test(req)

		assert.Equal(t, model.RoleUser, got.Role)
	})
}
