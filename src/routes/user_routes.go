package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/controllers"
)

func UserRoutes(api fiber.Router, ctl *controllers.UserController, protect fiber.Handler) {
	user := api.Group("/users", protect)
	user.Get("/suggestions", ctl.GetSuggestedConnections)
	user.Put("/profile", ctl.UpdateProfile)
	user.Get("/:username", ctl.GetPublicProfile)
}
