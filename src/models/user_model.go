package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultHeadline = "Linkup User"
	DefaultLocation = "Earth"
)

type User struct {
	Id             primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"`
	ProfilePicture string               `json:"profilePicture" bson:"profilePicture"`
	BannerImg      string               `json:"bannerImg" bson:"bannerImg"`
	Headline       string               `json:"headline" bson:"headline"`
	About          string               `json:"about" bson:"about"`
	Location       string               `json:"location" bson:"location"`
	Skills         []string             `json:"skills" bson:"skills"`
	Experience     []Experience         `json:"experience" bson:"experience"`
	Education      []Education          `json:"education" bson:"education"`
	Connections    []primitive.ObjectID `json:"connections" bson:"connections"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserDto is the public summary used wherever another record references a user
type UserDto struct {
	ID             primitive.ObjectID   `bson:"_id" json:"_id"`
	Name           string               `bson:"name" json:"name"`
	Username       string               `bson:"username" json:"username"`
	ProfilePicture string               `bson:"profilePicture" json:"profilePicture"`
	Headline       string               `bson:"headline" json:"headline,omitempty"`
	Connections    []primitive.ObjectID `bson:"connections" json:"connections,omitempty"`
}

type Experience struct {
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	StartDate   *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description string     `json:"description" bson:"description"`
}

type Education struct {
	School       string `json:"school" bson:"school"`
	FieldOfStudy string `json:"fieldOfStudy" bson:"fieldOfStudy"`
	StartYear    int    `json:"startYear,omitempty" bson:"startYear,omitempty"`
	EndYear      int    `json:"endYear,omitempty" bson:"endYear,omitempty"`
}

func (u User) Summary() UserDto {
	return UserDto{
		ID:             u.Id,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Headline:       u.Headline,
		Connections:    u.Connections,
	}
}

type SignupDto struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginDto struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateDto holds the editable profile fields; nil means untouched
type ProfileUpdateDto struct {
	Name           *string       `json:"name" validate:"omitempty,min=1"`
	Username       *string       `json:"username" validate:"omitempty,min=1"`
	Headline       *string       `json:"headline"`
	About          *string       `json:"about"`
	Location       *string       `json:"location"`
	ProfilePicture *string       `json:"profilePicture"`
	BannerImg      *string       `json:"bannerImg"`
	Skills         *[]string     `json:"skills"`
	Experience     *[]Experience `json:"experience"`
	Education      *[]Education  `json:"education"`
}
