package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type Comment struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PostPreview is the slice of a post embedded in notifications
type PostPreview struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Content string             `json:"content" bson:"content"`
	Image   string             `json:"image,omitempty" bson:"image,omitempty"`
}

type PostDto struct {
	ID        primitive.ObjectID   `json:"_id"`
	Author    UserDto              `json:"author"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentDto         `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type CommentDto struct {
	ID        primitive.ObjectID `json:"_id"`
	Content   string             `json:"content"`
	User      UserDto            `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
}

type CreatePostDto struct {
	Content string `json:"content" validate:"required_without=Image"`
	Image   string `json:"image,omitempty"` // data URI
}

type CreateCommentDto struct {
	Content string `json:"content" validate:"required"`
}
