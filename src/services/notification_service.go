package services

import (
	"context"
	"errors"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	notifications store.NotificationStore
	users         store.UserStore
	posts         store.PostStore
}

func NewNotificationService(n store.NotificationStore, u store.UserStore, p store.PostStore) *NotificationService {
	return &NotificationService{notifications: n, users: u, posts: p}
}

// Notify records that actor did something to recipient. Acting on your own
// content creates nothing.
func (s *NotificationService) Notify(ctx context.Context, recipient primitive.ObjectID, kind models.NotificationType, actor primitive.ObjectID, post *primitive.ObjectID) error {
	if recipient == actor {
		return nil
	}

	now := time.Now()
	n := &models.Notification{
		Recipient:   recipient,
		Type:        kind,
		RelatedUser: actor,
		RelatedPost: post,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return wrap("create notification", err)
	}
	lib.Notifications.WithLabelValues(string(kind)).Inc()
	return nil
}

// List returns the user's notifications newest first with the related user
// and post resolved.
func (s *NotificationService) List(ctx context.Context, user models.User) ([]models.NotificationDto, error) {
	items, err := s.notifications.ListFor(ctx, user.Id)
	if err != nil {
		return nil, wrap("list notifications", err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(items))
	postIDs := make([]primitive.ObjectID, 0, len(items))
	for _, n := range items {
		userIDs = append(userIDs, n.RelatedUser)
		if n.RelatedPost != nil {
			postIDs = append(postIDs, *n.RelatedPost)
		}
	}

	users, err := s.users.FindSummaries(ctx, userIDs)
	if err != nil {
		return nil, wrap("resolve notification users", err)
	}
	posts, err := s.posts.FindPreviews(ctx, postIDs)
	if err != nil {
		return nil, wrap("resolve notification posts", err)
	}

	out := make([]models.NotificationDto, 0, len(items))
	for _, n := range items {
		dto := models.NotificationDto{
			ID:        n.Id,
			Recipient: n.Recipient,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		if u, ok := users[n.RelatedUser]; ok {
			u.Headline, u.Connections = "", nil
			dto.RelatedUser = &u
		}
		if n.RelatedPost != nil {
			if p, ok := posts[*n.RelatedPost]; ok {
				dto.RelatedPost = &p
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID, user models.User) (models.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id, user.Id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Notification{}, notFound("Notification not found")
	}
	if err != nil {
		return models.Notification{}, wrap("mark notification read", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id primitive.ObjectID, user models.User) error {
	err := s.notifications.Delete(ctx, id, user.Id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Notification not found")
	}
	if err != nil {
		return wrap("delete notification", err)
	}
	return nil
}
