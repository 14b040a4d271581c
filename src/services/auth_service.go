package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthService struct {
	users     store.UserStore
	tokens    *lib.TokenManager
	blacklist lib.TokenBlacklist
	mail      mail.Queue
	clientURL string
}

// NewAuthService builds the service; blacklist may be nil, which disables
// token revocation.
func NewAuthService(users store.UserStore, tokens *lib.TokenManager, blacklist lib.TokenBlacklist, queue mail.Queue, clientURL string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		mail:      queue,
		clientURL: clientURL,
	}
}

// Signup registers a user and returns a session token for them.
func (s *AuthService) Signup(ctx context.Context, input models.SignupDto) (models.User, string, error) {
	if err := lib.Validate(input); err != nil {
		return models.User{}, "", validation(signupMessage(err))
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, "", validation("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", wrap("check email", err)
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return models.User{}, "", validation("Username already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", wrap("check username", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return models.User{}, "", wrap("hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:        input.Name,
		Username:    input.Username,
		Email:       input.Email,
		Password:    string(hash),
		Headline:    models.DefaultHeadline,
		Location:    models.DefaultLocation,
		Skills:      []string{},
		Experience:  []models.Experience{},
		Education:   []models.Education{},
		Connections: []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var dup *store.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "email" {
				return models.User{}, "", validation("Email already exists")
			}
			return models.User{}, "", validation("Username already exists")
		}
		return models.User{}, "", wrap("create user", err)
	}

	token, err := s.tokens.Generate(user.Id.Hex())
	if err != nil {
		return models.User{}, "", wrap("issue token", err)
	}

	job := mail.WelcomeJob(user.Email, user.Name, s.clientURL+"/profile/"+user.Username)
	if err := s.mail.Enqueue(ctx, job); err != nil {
		slog.Error("enqueue welcome email", "user", user.Id.Hex(), "error", err)
	}
	return *user, token, nil
}

// signupMessage keeps the client-facing wording for missing fields.
func signupMessage(err error) string {
	msg := err.Error()
	if strings.HasSuffix(msg, "is required") {
		return "All fields are required"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (s *AuthService) Login(ctx context.Context, input models.LoginDto) (models.User, string, error) {
	if err := lib.Validate(input); err != nil {
		return models.User{}, "", validation("All fields are required")
	}

	user, err := s.users.FindByUsername(ctx, input.Username)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", validation("Invalid credentials")
	}
	if err != nil {
		return models.User{}, "", wrap("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return models.User{}, "", validation("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.Id.Hex())
	if err != nil {
		return models.User{}, "", wrap("issue token", err)
	}
	return user, token, nil
}

// Logout revokes the token until it would have expired. Tokens that no
// longer verify need no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.blacklist == nil || token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return wrap("revoke token", err)
	}
	return nil
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, *lib.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.User{}, nil, unauthorized("Unauthorized - Invalid token")
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return models.User{}, nil, wrap("check token revocation", err)
		}
		if revoked {
			return models.User{}, nil, unauthorized("Unauthorized - Token revoked")
		}
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.User{}, nil, unauthorized("Unauthorized - Invalid token")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, nil, unauthorized("User not found")
	}
	if err != nil {
		return models.User{}, nil, wrap("load session user", err)
	}
	return user, claims, nil
}
