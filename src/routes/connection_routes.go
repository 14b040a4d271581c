package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/controllers"
)

// ConnectionRoutes sets up connection-related routes for sending, accepting, rejecting requests, listing requests, getting connections, removing connections, and checking connection status
func ConnectionRoutes(api fiber.Router, ctl *controllers.ConnectionController, protect fiber.Handler) {
	connection := api.Group("/connections", protect)
	connection.Post("/request/:userId", ctl.SendConnectionRequest)
	connection.Put("/accept/:requestId", ctl.AcceptConnectionRequest)
	connection.Put("/reject/:requestId", ctl.RejectConnectionRequest)
	// POST aliases for clients that follow the documented verbs
	connection.Post("/accept/:requestId", ctl.AcceptConnectionRequest)
	connection.Post("/reject/:requestId", ctl.RejectConnectionRequest)
	connection.Get("/requests", ctl.GetConnectionRequests)
	connection.Get("/status/:userId", ctl.GetConnectionStatus)
	connection.Get("/", ctl.GetUserConnections)
	connection.Delete("/:userId", ctl.RemoveConnection)
}
