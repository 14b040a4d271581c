package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
)

type AuthController struct {
	auth   *services.AuthService
	secure bool
}

// NewAuthController builds the handlers; secure marks the session cookie Secure.
func NewAuthController(auth *services.AuthService, secure bool) *AuthController {
	return &AuthController{auth: auth, secure: secure}
}

// Signup registers a new user and starts their session
func (ctl *AuthController) Signup(c *fiber.Ctx) error {
	var input models.SignupDto
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, token, err := ctl.auth.Signup(c.UserContext(), input)
	if err != nil {
		return fail(c, "signup", err)
	}

	lib.SetAuthCookie(c, token, ctl.secure)
	return c.Status(fiber.StatusCreated).JSON(lib.MessageResponse(true, "User registered successfully"))
}

// Login checks credentials and starts a session
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var input models.LoginDto
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, token, err := ctl.auth.Login(c.UserContext(), input)
	if err != nil {
		return fail(c, "login", err)
	}

	lib.SetAuthCookie(c, token, ctl.secure)
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Logged in successfully"))
}

// Logout revokes the session token and clears the cookie
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	token := c.Cookies(lib.AuthCookieName)
	lib.ClearAuthCookie(c, ctl.secure)

	if err := ctl.auth.Logout(c.UserContext(), token); err != nil {
		return fail(c, "logout", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Logged out successfully"))
}

// CurrentUser returns the authenticated user
func (ctl *AuthController) CurrentUser(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(currentUser(c))
}
