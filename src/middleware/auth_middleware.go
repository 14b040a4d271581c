package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
)

const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, *lib.Claims, error)
}

// ProtectRoute requires a valid session cookie and stores the user in locals
func ProtectRoute(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(lib.AuthCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse(false, "Unauthorized - No token Provided"))
		}

		user, claims, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if services.KindOf(err) == services.KindUnauthorized {
				return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse(false, err.Error()))
			}
			slog.Error("Error in protect route middleware", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse(false, "Internal server error"))
		}

		c.Locals(UserKey, user)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// CurrentUser returns the user stored by ProtectRoute.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(UserKey).(models.User)
	return user, ok
}
