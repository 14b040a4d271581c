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

type MongoConnectionStore struct {
	coll *mongo.Collection
}

func NewMongoConnectionStore(db *mongo.Database) *MongoConnectionStore {
	return &MongoConnectionStore{coll: db.Collection(lib.ConnectionsCollection)}
}

func (s *MongoConnectionStore) Create(ctx context.Context, req *models.ConnectionRequest) error {
	if req.Id.IsZero() {
		req.Id = primitive.NewObjectID()
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	req.Pair = models.PairKey(req.Sender, req.Recipient)

	if _, err := s.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert connection request: %w", err)
	}
	return nil
}

func (s *MongoConnectionStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.ConnectionRequest, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoConnectionStore) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (models.ConnectionRequest, error) {
	return s.findOne(ctx, bson.M{
		"$or": []bson.M{
			{"sender": a, "recipient": b},
			{"sender": b, "recipient": a},
		},
		"status": models.ConnectionStatusPending,
	})
}

func (s *MongoConnectionStore) findOne(ctx context.Context, filter bson.M) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := s.coll.FindOne(ctx, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ConnectionRequest{}, ErrNotFound
	}
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("find connection request: %w", err)
	}
	return req, nil
}

func (s *MongoConnectionStore) ListPendingFor(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error) {
	filter := bson.M{
		"recipient": recipient,
		"status":    models.ConnectionStatusPending,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find connection requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.ConnectionRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode connection requests: %w", err)
	}
	return requests, nil
}

func (s *MongoConnectionStore) Transition(ctx context.Context, id, recipient primitive.ObjectID, status models.ConnectionStatus) (models.ConnectionRequest, error) {
	filter := bson.M{
		"_id":       id,
		"recipient": recipient,
		"status":    models.ConnectionStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.ConnectionRequest
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ConnectionRequest{}, ErrConflict
	}
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("transition connection request: %w", err)
	}
	return req, nil
}
