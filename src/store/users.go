package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var userSummaryProjection = bson.M{
	"name":           1,
	"username":       1,
	"profilePicture": 1,
	"headline":       1,
	"connections":    1,
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(lib.UsersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Connections == nil {
		user.Connections = []primitive.ObjectID{}
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return userWriteError(err)
	}
	return nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *MongoUserStore) FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error) {
	out := make(map[primitive.ObjectID]models.UserDto, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(userSummaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserDto
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode user summaries: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *MongoUserStore) Suggestions(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserDto, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(userSummaryProjection)

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find suggestions: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.UserDto{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return users, nil
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdateDto) (models.User, error) {
	set := profileSet(update)
	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, userWriteError(err)
	}
	return user, nil
}

func (s *MongoUserStore) AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"connections": otherID}},
	)
	if err != nil {
		return fmt.Errorf("add connection: %w", err)
	}
	return nil
}

func (s *MongoUserStore) RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"connections": otherID}},
	)
	if err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

func profileSet(u models.ProfileUpdateDto) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Username != nil {
		set["username"] = *u.Username
	}
	if u.Headline != nil {
		set["headline"] = *u.Headline
	}
	if u.About != nil {
		set["about"] = *u.About
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.ProfilePicture != nil {
		set["profilePicture"] = *u.ProfilePicture
	}
	if u.BannerImg != nil {
		set["bannerImg"] = *u.BannerImg
	}
	if u.Skills != nil {
		set["skills"] = *u.Skills
	}
	if u.Experience != nil {
		set["experience"] = *u.Experience
	}
	if u.Education != nil {
		set["education"] = *u.Education
	}
	return set
}

func userWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		switch duplicateIndex(err) {
		case lib.UsernameIndex:
			return &DuplicateError{Field: "username"}
		case lib.EmailIndex:
			return &DuplicateError{Field: "email"}
		}
		return ErrDuplicate
	}
	return fmt.Errorf("write user: %w", err)
}

// duplicateIndex returns the name of the unique index an E11000 error names,
// e.g. "... collection: linkup.users index: uniq_email dup key: { ... }".
func duplicateIndex(err error) string {
	_, rest, ok := strings.Cut(err.Error(), " index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}
