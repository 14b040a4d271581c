package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/controllers"
)

func AuthRoutes(api fiber.Router, ctl *controllers.AuthController, protect fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/signup", ctl.Signup)
	auth.Post("/login", ctl.Login)
	auth.Post("/logout", ctl.Logout)
	auth.Get("/me", protect, ctl.CurrentUser)
}
