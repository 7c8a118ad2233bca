package services

import (
	"context"
	"strings"
	"time"

	"backend/models"
	"backend/repositories"
	"backend/utils"
)

type AuthService struct {
	store     repositories.Store
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(store repositories.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, NewValidationError("username, email and password are required")
	}

	if existing, err := s.store.Users().GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewValidationError("username already exists")
	}
	if existing, err := s.store.Users().GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewValidationError("email already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.store.Users().CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns a signed access token, or ErrInvalidCredentials for an
// unknown username or a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(user.ID, user.Username, s.jwtSecret, s.tokenTTL)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
