package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionRequest struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Status    ConnectionStatus   `json:"status" bson:"status"`
	Pair      string             `json:"-" bson:"pair"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// PairKey identifies the unordered pair of users; both directions map to the same key.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

type ConnectionRequestDto struct {
	ID        primitive.ObjectID `json:"_id"`
	Sender    UserDto            `json:"sender"`
	Recipient primitive.ObjectID `json:"recipient"`
	Status    ConnectionStatus   `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Relationship between the current user and another user
type Relationship string

const (
	RelationshipConnected    Relationship = "connected"
	RelationshipPending      Relationship = "pending"
	RelationshipReceived     Relationship = "received"
	RelationshipNotConnected Relationship = "not_connected"
)

type ConnectionStatusDto struct {
	Status    Relationship        `json:"status"`
	RequestID *primitive.ObjectID `json:"requestId,omitempty"`
}
