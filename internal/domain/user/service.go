package user

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/shared/auth"
)

const minPasswordLength = 8

// Service contains the business logic for user operations
type Service struct {
	repo Repository
}

// NewService creates a new user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with a bcrypt-hashed password. Usernames are
// unique; a duplicate comes back as ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, CreateUserParams{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// Authenticate verifies a username/password pair. Both unknown users and
// wrong passwords return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	found, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(found.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// CandidateIDs lists every user ID, for message attribution.
func (s *Service) CandidateIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListIDs(ctx)
}

// DeleteUser removes the user account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
