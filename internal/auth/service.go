package auth

import (
	"context"
	"errors"
	"fmt"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles signup and login against a UserStore.
type Service struct {
	users storage.UserStore
}

func NewService(users storage.UserStore) *Service {
	return &Service{users: users}
}

// Register creates a user. A taken username yields storage.ErrConflict.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
