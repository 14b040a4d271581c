package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
	"github.com/theleywin/Backend-Linkup/src/store/memstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuth struct {
	err error
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (models.User, *lib.Claims, error) {
	return models.User{}, nil, s.err
}

func newApp(auth Authenticator) *fiber.App {
	app := fiber.New()
	app.Get("/private", ProtectRoute(auth), func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(user.Username)
	})
	return app
}

func get(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: lib.AuthCookieName, Value: token})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestProtectRoute(t *testing.T) {
	users := memstore.NewUserStore()
	ana := &models.User{Name: "Ana", Username: "ana", Email: "ana@example.com"}
	require.NoError(t, users.Create(context.Background(), ana))

	tokens := lib.NewTokenManager("secret", lib.SessionTTL)
	auth := services.NewAuthService(users, tokens, nil, mail.NopQueue{}, "")
	app := newApp(auth)

	resp := get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	ghost, err := tokens.Generate(primitive.NewObjectID().Hex())
	require.NoError(t, err)
	resp = get(t, app, ghost)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := tokens.Generate(ana.Id.Hex())
	require.NoError(t, err)
	resp = get(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectRouteRejectsRevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	blacklist := lib.NewRedisTokenBlacklist(lib.ConnectRedis(mr.Addr(), ""))

	users := memstore.NewUserStore()
	ana := &models.User{Name: "Ana", Username: "ana", Email: "ana@example.com"}
	require.NoError(t, users.Create(context.Background(), ana))

	tokens := lib.NewTokenManager("secret", lib.SessionTTL)
	auth := services.NewAuthService(users, tokens, blacklist, mail.NopQueue{}, "")
	app := newApp(auth)

	token, err := tokens.Generate(ana.Id.Hex())
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, get(t, app, token).StatusCode)

	require.NoError(t, auth.Logout(context.Background(), token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, token).StatusCode)

	mr.Close()
	assert.Equal(t, fiber.StatusInternalServerError, get(t, app, token).StatusCode)
}

func TestProtectRouteServerError(t *testing.T) {
	app := newApp(stubAuth{err: errors.New("mongo unavailable")})
	resp := get(t, app, "token")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
