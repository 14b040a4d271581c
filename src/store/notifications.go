package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoNotificationStore struct {
	coll *mongo.Collection
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{coll: db.Collection(lib.NotificationsCollection)}
}

func (s *MongoNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now

	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *MongoNotificationStore) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

func (s *MongoNotificationStore) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error) {
	filter := bson.M{
		"_id":       id,
		"recipient": recipient,
	}
	update := bson.M{
		"$set": bson.M{
			"read":      true,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

func (s *MongoNotificationStore) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
