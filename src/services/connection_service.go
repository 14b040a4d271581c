package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionService struct {
	requests      store.ConnectionStore
	users         store.UserStore
	notifications *NotificationService
	mail          mail.Queue
	clientURL     string
}

func NewConnectionService(requests store.ConnectionStore, users store.UserStore, notifications *NotificationService, queue mail.Queue, clientURL string) *ConnectionService {
	return &ConnectionService{
		requests:      requests,
		users:         users,
		notifications: notifications,
		mail:          queue,
		clientURL:     clientURL,
	}
}

// SendRequest creates a pending request from sender to recipientID. At most
// one pending request exists per pair; the store's unique index settles races.
func (s *ConnectionService) SendRequest(ctx context.Context, sender models.User, recipientID primitive.ObjectID) (models.ConnectionRequest, error) {
	if sender.Id == recipientID {
		return models.ConnectionRequest{}, validation("You can't send a request to yourself")
	}
	if lib.ContainsID(sender.Connections, recipientID) {
		return models.ConnectionRequest{}, validation("You are already connected")
	}

	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ConnectionRequest{}, notFound("User not found")
		}
		return models.ConnectionRequest{}, wrap("load recipient", err)
	}

	_, err := s.requests.FindPendingBetween(ctx, sender.Id, recipientID)
	if err == nil {
		return models.ConnectionRequest{}, validation("Connection request is already pending")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.ConnectionRequest{}, wrap("check pending request", err)
	}

	now := time.Now()
	req := &models.ConnectionRequest{
		Sender:    sender.Id,
		Recipient: recipientID,
		Status:    models.ConnectionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.ConnectionRequest{}, validation("Connection request is already pending")
		}
		return models.ConnectionRequest{}, wrap("create connection request", err)
	}
	lib.ConnectionTransitions.WithLabelValues(string(models.ConnectionStatusPending)).Inc()
	return *req, nil
}

// Accept connects both users, notifies the sender and queues an email.
func (s *ConnectionService) Accept(ctx context.Context, requestID primitive.ObjectID, actor models.User) error {
	req, err := s.transition(ctx, requestID, actor, models.ConnectionStatusAccepted, "Not authorized to accept this request")
	if err != nil {
		return err
	}

	if err := s.users.AddConnection(ctx, req.Sender, req.Recipient); err != nil {
		return wrap("add connection to sender", err)
	}
	if err := s.users.AddConnection(ctx, req.Recipient, req.Sender); err != nil {
		return wrap("add connection to recipient", err)
	}

	if err := s.notifications.Notify(ctx, req.Sender, models.NotificationTypeConnectionAccepted, actor.Id, nil); err != nil {
		slog.Error("connection accepted notification failed", "request", req.Id.Hex(), "error", err)
	}

	sender, err := s.users.FindByID(ctx, req.Sender)
	if err != nil {
		slog.Error("load sender for acceptance email", "request", req.Id.Hex(), "error", err)
		return nil
	}
	job := mail.ConnectionAcceptedJob(sender.Email, sender.Name, actor.Name, s.clientURL+"/profile/"+actor.Username)
	if err := s.mail.Enqueue(ctx, job); err != nil {
		slog.Error("enqueue connection accepted email", "request", req.Id.Hex(), "error", err)
	}
	return nil
}

func (s *ConnectionService) Reject(ctx context.Context, requestID primitive.ObjectID, actor models.User) error {
	_, err := s.transition(ctx, requestID, actor, models.ConnectionStatusRejected, "Not authorized to reject this request")
	return err
}

func (s *ConnectionService) transition(ctx context.Context, requestID primitive.ObjectID, actor models.User, status models.ConnectionStatus, forbiddenMsg string) (models.ConnectionRequest, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ConnectionRequest{}, notFound("Connection request was not found")
	}
	if err != nil {
		return models.ConnectionRequest{}, wrap("load connection request", err)
	}
	if req.Recipient != actor.Id {
		return models.ConnectionRequest{}, forbidden(forbiddenMsg)
	}
	if req.Status != models.ConnectionStatusPending {
		return models.ConnectionRequest{}, validation("This request has already been processed")
	}

	updated, err := s.requests.Transition(ctx, requestID, actor.Id, status)
	if errors.Is(err, store.ErrConflict) {
		return models.ConnectionRequest{}, validation("This request has already been processed")
	}
	if err != nil {
		return models.ConnectionRequest{}, wrap("transition connection request", err)
	}
	lib.ConnectionTransitions.WithLabelValues(string(status)).Inc()
	return updated, nil
}

// ListRequests returns pending requests addressed to user, newest first.
func (s *ConnectionService) ListRequests(ctx context.Context, user models.User) ([]models.ConnectionRequestDto, error) {
	reqs, err := s.requests.ListPendingFor(ctx, user.Id)
	if err != nil {
		return nil, wrap("list connection requests", err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.Sender)
	}
	senders, err := s.users.FindSummaries(ctx, senderIDs)
	if err != nil {
		return nil, wrap("resolve request senders", err)
	}

	out := make([]models.ConnectionRequestDto, 0, len(reqs))
	for _, r := range reqs {
		sender, ok := senders[r.Sender]
		if !ok {
			// sender account is gone
			continue
		}
		out = append(out, models.ConnectionRequestDto{
			ID:        r.Id,
			Sender:    sender,
			Recipient: r.Recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, user models.User) ([]models.UserDto, error) {
	found, err := s.users.FindSummaries(ctx, user.Connections)
	if err != nil {
		return nil, wrap("resolve connections", err)
	}

	out := make([]models.UserDto, 0, len(found))
	for _, id := range user.Connections {
		if u, ok := found[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Remove drops the connection in both directions.
func (s *ConnectionService) Remove(ctx context.Context, user models.User, otherID primitive.ObjectID) error {
	if user.Id == otherID {
		return validation("You can't remove yourself")
	}
	if err := s.users.RemoveConnection(ctx, user.Id, otherID); err != nil {
		return wrap("remove connection", err)
	}
	if err := s.users.RemoveConnection(ctx, otherID, user.Id); err != nil {
		return wrap("remove reverse connection", err)
	}
	return nil
}

// Status describes how current relates to targetID.
func (s *ConnectionService) Status(ctx context.Context, current models.User, targetID primitive.ObjectID) (models.ConnectionStatusDto, error) {
	if current.Id == targetID {
		return models.ConnectionStatusDto{}, validation("You can't check the connection status with yourself")
	}
	if lib.ContainsID(current.Connections, targetID) {
		return models.ConnectionStatusDto{Status: models.RelationshipConnected}, nil
	}

	req, err := s.requests.FindPendingBetween(ctx, current.Id, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ConnectionStatusDto{Status: models.RelationshipNotConnected}, nil
	}
	if err != nil {
		return models.ConnectionStatusDto{}, wrap("find pending request", err)
	}

	if req.Sender == current.Id {
		return models.ConnectionStatusDto{Status: models.RelationshipPending}, nil
	}
	id := req.Id
	return models.ConnectionStatusDto{Status: models.RelationshipReceived, RequestID: &id}, nil
}
