package services

import (
	"context"
	"errors"
	"strings"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/media"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const suggestionLimit = 3

type UserService struct {
	users  store.UserStore
	images media.ImageStore
}

func NewUserService(users store.UserStore, images media.ImageStore) *UserService {
	return &UserService{users: users, images: images}
}

// Suggestions returns a few users the caller is not yet connected to.
func (s *UserService) Suggestions(ctx context.Context, user models.User) ([]models.UserDto, error) {
	exclude := append([]primitive.ObjectID{user.Id}, user.Connections...)
	users, err := s.users.Suggestions(ctx, exclude, suggestionLimit)
	if err != nil {
		return nil, wrap("load suggestions", err)
	}
	for i := range users {
		users[i].Connections = nil
	}
	return users, nil
}

func (s *UserService) PublicProfile(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, notFound("User not found")
	}
	if err != nil {
		return models.User{}, wrap("load profile", err)
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile applies the editable fields. Pictures sent as data URIs are
// uploaded first and stored by URL.
func (s *UserService) UpdateProfile(ctx context.Context, user models.User, patch models.ProfileUpdateDto) (models.User, error) {
	if err := lib.Validate(patch); err != nil {
		return models.User{}, validation(err.Error())
	}
	if blank(patch.Name) || blank(patch.Username) {
		return models.User{}, validation("Name and username cannot be empty")
	}

	for _, field := range []*string{patch.ProfilePicture, patch.BannerImg} {
		if field == nil || !media.IsDataURI(*field) {
			continue
		}
		url, err := s.images.Upload(ctx, *field)
		if errors.Is(err, media.ErrInvalidImage) {
			return models.User{}, validation("Invalid image")
		}
		if errors.Is(err, media.ErrDisabled) {
			return models.User{}, validation("Image uploads are disabled")
		}
		if err != nil {
			return models.User{}, wrap("upload profile image", err)
		}
		*field = url
	}

	updated, err := s.users.UpdateProfile(ctx, user.Id, patch)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return models.User{}, conflict("Username already taken")
	case errors.Is(err, store.ErrNotFound):
		return models.User{}, notFound("User not found")
	case err != nil:
		return models.User{}, wrap("update profile", err)
	}
	updated.Password = ""
	return updated, nil
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
