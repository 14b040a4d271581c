package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/controllers"
)

func NotificationRoutes(api fiber.Router, ctl *controllers.NotificationController, protect fiber.Handler) {
	notification := api.Group("/notifications", protect)
	notification.Get("/", ctl.GetUserNotifications)
	notification.Put("/:id/read", ctl.MarkNotificationAsRead)
	notification.Delete("/:id", ctl.DeleteNotification)
}
