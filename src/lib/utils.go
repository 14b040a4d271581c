package lib

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AuthCookieName = "jwt-linkedin"
	SessionTTL     = 3 * 24 * time.Hour
)

// Returns a map with success and message keys for API responses
func MessageResponse(success bool, message string) fiber.Map {
	return fiber.Map{
		"success": success,
		"message": message,
	}
}

// ParseObjectID reads a hex ObjectID from a route parameter
func ParseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// SetAuthCookie writes the session cookie carrying the signed token
func SetAuthCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		Expires:  time.Now().Add(SessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   secure,
	})
}

// ClearAuthCookie expires the session cookie
func ClearAuthCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   secure,
	})
}

func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
