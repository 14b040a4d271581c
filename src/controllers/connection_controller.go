package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

// SendConnectionRequest sends a connection request from the authenticated user to another user
func (ctl *ConnectionController) SendConnectionRequest(c *fiber.Ctx) error {
	targetID, ok := lib.ParseObjectID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID format")
	}

	if _, err := ctl.connections.SendRequest(c.UserContext(), currentUser(c), targetID); err != nil {
		return fail(c, "sendConnectionRequest", err)
	}
	return c.Status(fiber.StatusCreated).JSON(lib.MessageResponse(true, "Connection request sent successfully"))
}

// AcceptConnectionRequest accepts a pending request addressed to the caller
func (ctl *ConnectionController) AcceptConnectionRequest(c *fiber.Ctx) error {
	requestID, ok := lib.ParseObjectID(c, "requestId")
	if !ok {
		return badRequest(c, "Invalid request ID format")
	}

	if err := ctl.connections.Accept(c.UserContext(), requestID, currentUser(c)); err != nil {
		return fail(c, "acceptConnectionRequest", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Connection accepted successfully"))
}

// RejectConnectionRequest rejects a pending request addressed to the caller
func (ctl *ConnectionController) RejectConnectionRequest(c *fiber.Ctx) error {
	requestID, ok := lib.ParseObjectID(c, "requestId")
	if !ok {
		return badRequest(c, "Invalid request ID format")
	}

	if err := ctl.connections.Reject(c.UserContext(), requestID, currentUser(c)); err != nil {
		return fail(c, "rejectConnectionRequest", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Connection request rejected"))
}

// GetConnectionRequests lists pending requests received by the caller
func (ctl *ConnectionController) GetConnectionRequests(c *fiber.Ctx) error {
	requests, err := ctl.connections.ListRequests(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "getConnectionRequests", err)
	}
	return c.Status(fiber.StatusOK).JSON(requests)
}

// GetUserConnections lists the caller's connections
func (ctl *ConnectionController) GetUserConnections(c *fiber.Ctx) error {
	users, err := ctl.connections.ListConnections(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "getUserConnections", err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// RemoveConnection disconnects the caller from another user
func (ctl *ConnectionController) RemoveConnection(c *fiber.Ctx) error {
	targetID, ok := lib.ParseObjectID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID format")
	}

	if err := ctl.connections.Remove(c.UserContext(), currentUser(c), targetID); err != nil {
		return fail(c, "removeConnection", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Connection removed successfully"))
}

// GetConnectionStatus reports how the caller relates to another user
func (ctl *ConnectionController) GetConnectionStatus(c *fiber.Ctx) error {
	targetID, ok := lib.ParseObjectID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID format")
	}

	status, err := ctl.connections.Status(c.UserContext(), currentUser(c), targetID)
	if err != nil {
		return fail(c, "getConnectionStatus", err)
	}
	return c.Status(fiber.StatusOK).JSON(status)
}
