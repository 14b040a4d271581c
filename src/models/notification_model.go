package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeLike               NotificationType = "like"
	NotificationTypeComment            NotificationType = "comment"
	NotificationTypeConnectionAccepted NotificationType = "connectionAccepted"
)

type Notification struct {
	Id          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Recipient   primitive.ObjectID  `json:"recipient" bson:"recipient"`
	Type        NotificationType    `json:"type" bson:"type"`
	RelatedUser primitive.ObjectID  `json:"relatedUser" bson:"relatedUser"`
	RelatedPost *primitive.ObjectID `json:"relatedPost,omitempty" bson:"relatedPost,omitempty"`
	Read        bool                `json:"read" bson:"read"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type NotificationDto struct {
	ID          primitive.ObjectID `json:"_id"`
	Recipient   primitive.ObjectID `json:"recipient"`
	Type        NotificationType   `json:"type"`
	RelatedUser *UserDto           `json:"relatedUser,omitempty"`
	RelatedPost *PostPreview       `json:"relatedPost,omitempty"`
	Read        bool               `json:"read"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
