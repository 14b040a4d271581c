// Package store holds the repositories for each aggregate. Services depend on
// the interfaces; the Mongo implementations live next to them and the
// in-memory ones in store/memstore.
package store

import (
	"context"
	"errors"

	"github.com/theleywin/Backend-Linkup/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrConflict means a conditional update matched nothing because the
	// record is no longer in the expected state.
	ErrConflict = errors.New("conflict")
)

// DuplicateError names the unique field that rejected a write.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate " + e.Field }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error)
	Suggestions(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserDto, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdateDto) (models.User, error)
	AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error
	RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Post, error)
	FindByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error)
	FindPreviews(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostPreview, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddLike and RemoveLike report whether the likes set changed.
	AddLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error)
	RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (models.Post, error)
}

type ConnectionStore interface {
	// Create returns ErrDuplicate when a pending request already exists for the pair.
	Create(ctx context.Context, req *models.ConnectionRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.ConnectionRequest, error)
	FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (models.ConnectionRequest, error)
	ListPendingFor(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error)
	// Transition moves a pending request addressed to recipient into status.
	// It returns ErrConflict when the request is not pending for that recipient.
	Transition(ctx context.Context, id, recipient primitive.ObjectID, status models.ConnectionStatus) (models.ConnectionRequest, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error)
	Delete(ctx context.Context, id, recipient primitive.ObjectID) error
}
