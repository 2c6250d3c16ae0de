package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stock_dashboard/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	ListFunc        func(ctx context.Context) ([]entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// mockJWTGenerator is a mock implementation of JWTGenerator.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "mock-jwt-token", nil
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		createErr error
		wantErr   error
		wantSaved bool
	}{
		{name: "success", username: "alice", email: "alice@example.com", password: "pw", wantSaved: true},
		{name: "missing username", username: " ", email: "alice@example.com", password: "pw", wantErr: ErrMissingFields},
		{name: "missing email", username: "alice", email: "", password: "pw", wantErr: ErrMissingFields},
		{name: "missing password", username: "alice", email: "alice@example.com", password: "", wantErr: ErrMissingFields},
		{
			name: "duplicate email", username: "alice", email: "alice@example.com", password: "pw",
			createErr: ErrEmailAlreadyExists, wantErr: ErrEmailAlreadyExists, wantSaved: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var saved *entity.User
			repo := &mockUserRepository{CreateFunc: func(_ context.Context, u *entity.User) error {
				saved = u
				return tt.createErr
			}}
			err := NewAuthUsecase(repo, &mockJWTGenerator{}).Signup(context.Background(), tt.username, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if !tt.wantSaved {
				assert.Nil(t, saved)
				return
			}
			require.NotNil(t, saved)
			assert.Equal(t, tt.username, saved.Username)
			assert.Equal(t, tt.email, saved.Email)
			assert.NotEqual(t, tt.password, saved.Password, "password must be hashed")
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte(tt.password)))
		})
	}
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &entity.User{ID: 3, Username: "bob", Email: "bob@example.com", Password: string(hash)}

	tests := []struct {
		name      string
		password  string
		findFunc  func(ctx context.Context, email string) (*entity.User, error)
		tokenFunc func(userID uint, email string) (string, error)
		wantToken string
		wantErr   error
	}{
		{
			name:     "success",
			password: "correct-password",
			findFunc: func(context.Context, string) (*entity.User, error) { return stored, nil },
			tokenFunc: func(userID uint, email string) (string, error) {
				assert.Equal(t, uint(3), userID)
				assert.Equal(t, "bob@example.com", email)
				return "signed", nil
			},
			wantToken: "signed",
		},
		{
			name:     "user not found",
			password: "whatever",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrong",
			findFunc: func(context.Context, string) (*entity.User, error) { return stored, nil },
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "store failure",
			password: "correct-password",
			findFunc: func(context.Context, string) (*entity.User, error) { return nil, errors.New("disk error") },
		},
		{
			name:      "token failure",
			password:  "correct-password",
			findFunc:  func(context.Context, string) (*entity.User, error) { return stored, nil },
			tokenFunc: func(uint, string) (string, error) { return "", errors.New("sign failed") },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := NewAuthUsecase(
				&mockUserRepository{FindByEmailFunc: tt.findFunc},
				&mockJWTGenerator{GenerateTokenFunc: tt.tokenFunc},
			)
			token, err := uc.Login(context.Background(), "bob@example.com", tt.password)

			if tt.wantToken != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				return
			}
			require.Error(t, err)
			assert.Empty(t, token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidCredentials)
			}
		})
	}
}

func TestAuthUsecase_Users(t *testing.T) {
	t.Parallel()

	want := []entity.User{{ID: 1, Username: "alice", Email: "alice@example.com"}}
	uc := NewAuthUsecase(&mockUserRepository{ListFunc: func(context.Context) ([]entity.User, error) {
		return want, nil
	}}, &mockJWTGenerator{})

	got, err := uc.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	failing := NewAuthUsecase(&mockUserRepository{ListFunc: func(context.Context) ([]entity.User, error) {
		return nil, errors.New("boom")
	}}, &mockJWTGenerator{})
	_, err = failing.Users(context.Background())
	assert.Error(t, err)
}
