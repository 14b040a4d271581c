package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/middleware"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
)

var statusByKind = map[services.Kind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindConflict:     fiber.StatusConflict,
}

// fail writes the client-facing message for expected errors and a generic
// server error for anything else.
func fail(c *fiber.Ctx, op string, err error) error {
	if status, ok := statusByKind[services.KindOf(err)]; ok {
		return c.Status(status).JSON(lib.MessageResponse(false, err.Error()))
	}
	slog.Error("Error in "+op+" controller", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse(false, "Server error"))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse(false, message))
}

func currentUser(c *fiber.Ctx) models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}
