package lib

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection         = "users"
	PostsCollection         = "posts"
	ConnectionsCollection   = "connections"
	NotificationsCollection = "notifications"

	EmailIndex       = "uniq_email"
	UsernameIndex    = "uniq_username"
	PendingPairIndex = "uniq_pending_pair"
)

// ConnectDB opens the MongoDB client and verifies it with a ping
func ConnectDB(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("connected to MongoDB", "db", dbName)
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the unique indexes the stores rely on to reject
// concurrent duplicates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(EmailIndex)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(UsernameIndex)},
		},
		ConnectionsCollection: {
			{
				Keys: bson.D{{Key: "pair", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName(PendingPairIndex).
					SetPartialFilterExpression(bson.M{"status": "pending"}),
			},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}}},
		},
		PostsCollection: {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
