package service

import (
	"context"
	"errors"

	"github.com/eventhub/eventhub/crypto"
	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
)

// AuthService handles registration, login and identity resolution.
type AuthService struct {
	userRepo     repository.UserRepository
	tokenManager *securityjwt.TokenManager
	logger       *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokenManager *securityjwt.TokenManager, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       log,
	}
}

// RegisterRequest represents the request to register a user.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request to log in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the public view of a user: everything but the credential.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult carries the issued token and the identity it represents.
type LoginResult struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user"`
}

func summarize(u *repository.User) *UserSummary {
	return &UserSummary{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
	}
}

// Register creates a new user. It never issues a token; a fresh account
// goes through the explicit login flow.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*UserSummary, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, repository.ErrUsernameExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &repository.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID.Hex(), "username", user.Username)
	return summarize(user), nil
}

// Login authenticates by email and password and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.ComparePassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenManager.Issue(securityjwt.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID.Hex())
	return &LoginResult{
		Token: token,
		User:  summarize(user),
	}, nil
}

// GetUserByID resolves a user id to its public summary.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return summarize(user), nil
}
