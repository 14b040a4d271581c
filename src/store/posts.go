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

type MongoPostStore struct {
	coll *mongo.Collection
}

func NewMongoPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{coll: db.Collection(lib.PostsCollection)}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) error {
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	now := time.Now()
	post.CreatedAt, post.UpdatedAt = now, now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	if _, err := s.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *MongoPostStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var post models.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

func (s *MongoPostStore) FindByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"author": bson.M{"$in": authors}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (s *MongoPostStore) FindPreviews(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostPreview, error) {
	out := make(map[primitive.ObjectID]models.PostPreview, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"content": 1, "image": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find post previews: %w", err)
	}
	defer cursor.Close(ctx)

	var previews []models.PostPreview
	if err := cursor.All(ctx, &previews); err != nil {
		return nil, fmt.Errorf("decode post previews: %w", err)
	}
	for _, p := range previews {
		out[p.ID] = p
	}
	return out, nil
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error) {
	return s.toggle(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": time.Now()}},
		id,
	)
}

func (s *MongoPostStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error) {
	return s.toggle(ctx,
		bson.M{"_id": id, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": time.Now()}},
		id,
	)
}

// toggle applies a conditional update; when the condition no longer holds the
// current post is returned unchanged.
func (s *MongoPostStore) toggle(ctx context.Context, filter, update bson.M, id primitive.ObjectID) (models.Post, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err == nil {
		return post, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, false, fmt.Errorf("update likes: %w", err)
	}

	post, err = s.FindByID(ctx, id)
	if err != nil {
		return models.Post{}, false, err
	}
	return post, false, nil
}

func (s *MongoPostStore) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (models.Post, error) {
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("add comment: %w", err)
	}
	return post, nil
}
