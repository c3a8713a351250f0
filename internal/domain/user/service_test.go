package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc        func(ctx context.Context, params CreateUserParams) (*User, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*User, error)
	ListIDsFunc       func(ctx context.Context) ([]int64, error)
	DeleteFunc        func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) ListIDs(ctx context.Context) ([]int64, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func TestRegisterHashesPassword(t *testing.T) {
	var captured CreateUserParams
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateUserParams) (*User, error) {
			captured = params
			return &User{ID: 1, Username: params.Username, PasswordHash: params.PasswordHash}, nil
		},
	}
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), "ravi", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ravi", created.Username)

	assert.NotEqual(t, "hunter2hunter2", captured.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(&MockRepository{})
	_, err := svc.Register(context.Background(), "ravi", "short")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateUserParams) (*User, error) {
			return nil, ErrUsernameTaken
		},
	}
	_, err := NewService(repo).Register(context.Background(), "ravi", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &MockRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*User, error) {
			if username == "ravi" {
				return &User{ID: 1, Username: "ravi", PasswordHash: string(hash)}, nil
			}
			return nil, ErrUserNotFound
		},
	}
	svc := NewService(repo)

	found, err := svc.Authenticate(context.Background(), "ravi", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)

	_, err = svc.Authenticate(context.Background(), "ravi", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user reads the same as a wrong password.
	_, err = svc.Authenticate(context.Background(), "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCandidateIDs(t *testing.T) {
	repo := &MockRepository{
		ListIDsFunc: func(ctx context.Context) ([]int64, error) {
			return []int64{1, 2, 3}, nil
		},
	}
	ids, err := NewService(repo).CandidateIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}
