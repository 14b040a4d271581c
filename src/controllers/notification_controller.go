package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (ctl *NotificationController) GetUserNotifications(c *fiber.Ctx) error {
	list, err := ctl.notifications.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "getUserNotifications", err)
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

func (ctl *NotificationController) MarkNotificationAsRead(c *fiber.Ctx) error {
	id, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid notification ID format")
	}

	n, err := ctl.notifications.MarkRead(c.UserContext(), id, currentUser(c))
	if err != nil {
		return fail(c, "markNotificationAsRead", err)
	}
	return c.Status(fiber.StatusOK).JSON(n)
}

func (ctl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	id, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid notification ID format")
	}

	if err := ctl.notifications.Delete(c.UserContext(), id, currentUser(c)); err != nil {
		return fail(c, "deleteNotification", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Notification deleted successfully"))
}
