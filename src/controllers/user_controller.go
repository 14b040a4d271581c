package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetSuggestedConnections lists a few users the caller could connect with
func (ctl *UserController) GetSuggestedConnections(c *fiber.Ctx) error {
	users, err := ctl.users.Suggestions(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "getSuggestedConnections", err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// GetPublicProfile returns a user's profile by username
func (ctl *UserController) GetPublicProfile(c *fiber.Ctx) error {
	user, err := ctl.users.PublicProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return fail(c, "getPublicProfile", err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateProfile applies the editable fields of the caller's profile
func (ctl *UserController) UpdateProfile(c *fiber.Ctx) error {
	var patch models.ProfileUpdateDto
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := ctl.users.UpdateProfile(c.UserContext(), currentUser(c), patch)
	if err != nil {
		return fail(c, "updateProfile", err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
