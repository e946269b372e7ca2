package middleware

import (
	"github.com/gofiber/fiber/v2"

	"printapi/internal/model"
)

const (
	// UserIDHeader and RoleHeader are injected by the upstream auth
	// gateway after token verification. This service trusts them.
	UserIDHeader = "X-User-ID"
	RoleHeader   = "X-User-Role"

	// ActorLocalKey is the key used to store the actor in Fiber's context locals.
	ActorLocalKey = "actor"
)

// Actor resolves the authenticated identity from the gateway headers and
// stores it in context locals. Requests without an identity still pass;
// handlers that need one reject them via RequireActor.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := model.Actor{
			UserID: c.Get(UserIDHeader),
			Role:   model.RoleUser,
		}
		if c.Get(RoleHeader) == string(model.RoleAdmin) {
			actor.Role = model.RoleAdmin
		}
		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by the Actor middleware.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}
