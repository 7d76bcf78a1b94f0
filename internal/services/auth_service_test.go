package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vocalcoach/backend/internal/auth/service"
	"github.com/vocalcoach/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user        *models.User
	createdUser *models.User
	profileID   int
	err         error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.createdUser = user
	return m.profileID, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, models.ErrNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, models.ErrNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.user != nil, nil
}

// mockUserTokenRepository is a mock implementation of UserTokenRepository
type mockUserTokenRepository struct {
	userToken *models.UserToken
	created   *models.UserToken
	updated   bool
	deleted   bool
	err       error
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.err != nil {
		return m.err
	}
	m.created = userToken
	return nil
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.userToken == nil {
		return nil, models.ErrNotFound
	}
	return m.userToken, nil
}

func (m *mockUserTokenRepository) UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error {
	if m.err != nil {
		return m.err
	}
	m.updated = true
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	m.deleted = true
	return nil
}

func newTestTokenGenerator() *service.TokenGenerator {
	return service.NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		req      *models.RegisterRequest
		mockRepo *mockUserRepository
		wantErr  error
		wantRole models.Role
	}{
		{
			name: "registers student",
			req: &models.RegisterRequest{
				Email:    "Student@Example.com",
				Password: "secret123",
				FullName: "Test Student",
				Role:     "student",
			},
			mockRepo: &mockUserRepository{profileID: 5},
			wantRole: models.RoleStudent,
		},
		{
			name: "registers instructor",
			req: &models.RegisterRequest{
				Email:    "coach@example.com",
				Password: "secret123",
				FullName: "Coach",
				Role:     "instructor",
			},
			mockRepo: &mockUserRepository{profileID: 3},
			wantRole: models.RoleInstructor,
		},
		{
			name: "missing fields",
			req: &models.RegisterRequest{
				Email: "student@example.com",
			},
			mockRepo: &mockUserRepository{},
			wantErr:  models.ErrValidation,
		},
		{
			name: "invalid email format",
			req: &models.RegisterRequest{
				Email:    "not-an-email",
				Password: "secret123",
				FullName: "Test",
				Role:     "student",
			},
			mockRepo: &mockUserRepository{},
			wantErr:  models.ErrValidation,
		},
		{
			name: "unknown role",
			req: &models.RegisterRequest{
				Email:    "student@example.com",
				Password: "secret123",
				FullName: "Test",
				Role:     "admin",
			},
			mockRepo: &mockUserRepository{},
			wantErr:  models.ErrValidation,
		},
		{
			name: "duplicate email caught by pre-check",
			req: &models.RegisterRequest{
				Email:    "taken@example.com",
				Password: "secret123",
				FullName: "Test",
				Role:     "student",
			},
			mockRepo: &mockUserRepository{user: &models.User{ID: 1, Email: "taken@example.com"}},
			wantErr:  models.ErrConflict,
		},
		{
			name: "duplicate email caught by unique key",
			req: &models.RegisterRequest{
				Email:    "taken@example.com",
				Password: "secret123",
				FullName: "Test",
				Role:     "student",
			},
			mockRepo: &mockUserRepository{err: models.ErrConflict},
			wantErr:  models.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(tt.mockRepo, &mockUserTokenRepository{}, newTestTokenGenerator())

			err := svc.Register(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tt.mockRepo.createdUser)
			assert.Equal(t, tt.wantRole, tt.mockRepo.createdUser.Role)
			// Email is normalized to lower case before storage
			assert.Equal(t, strings.ToLower(tt.req.Email), tt.mockRepo.createdUser.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(tt.mockRepo.createdUser.PasswordHash), []byte(tt.req.Password)))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := &models.User{
		ID:           1,
		Email:        "student@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}

	tests := []struct {
		name     string
		req      *models.LoginRequest
		mockRepo *mockUserRepository
		wantErr  error
	}{
		{
			name:     "valid credentials",
			req:      &models.LoginRequest{Email: "student@example.com", Password: "secret123"},
			mockRepo: &mockUserRepository{user: storedUser},
		},
		{
			name:     "wrong password",
			req:      &models.LoginRequest{Email: "student@example.com", Password: "wrong"},
			mockRepo: &mockUserRepository{user: storedUser},
			wantErr:  models.ErrUnauthorized,
		},
		{
			name:     "unknown email",
			req:      &models.LoginRequest{Email: "ghost@example.com", Password: "secret123"},
			mockRepo: &mockUserRepository{},
			wantErr:  models.ErrUnauthorized,
		},
		{
			name:     "empty credentials",
			req:      &models.LoginRequest{},
			mockRepo: &mockUserRepository{},
			wantErr:  models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenRepo := &mockUserTokenRepository{}
			svc := NewAuthService(tt.mockRepo, tokenRepo, newTestTokenGenerator())

			access, refresh, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, access)
			assert.NotEmpty(t, refresh)
			require.NotNil(t, tokenRepo.created)
			assert.Equal(t, refresh, tokenRepo.created.Token)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	tg := newTestTokenGenerator()
	_, validRefresh, err := tg.GenerateTokens(1, int(models.RoleStudent))
	require.NoError(t, err)

	t.Run("rotates valid token", func(t *testing.T) {
		userRepo := &mockUserRepository{user: &models.User{ID: 1, Role: models.RoleStudent}}
		tokenRepo := &mockUserTokenRepository{userToken: &models.UserToken{ID: 1, UserID: 1, Token: validRefresh}}
		svc := NewAuthService(userRepo, tokenRepo, tg)

		access, newRefresh, err := svc.Refresh(context.Background(), validRefresh)

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.True(t, tokenRepo.updated)
	})

	t.Run("rejects token missing from database", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{}
		svc := NewAuthService(&mockUserRepository{}, tokenRepo, tg)

		_, _, err := svc.Refresh(context.Background(), validRefresh)

		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("rejects malformed token and deletes it", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{}
		svc := NewAuthService(&mockUserRepository{}, tokenRepo, tg)

		_, _, err := svc.Refresh(context.Background(), "not-a-token")

		assert.ErrorIs(t, err, models.ErrUnauthorized)
		assert.True(t, tokenRepo.deleted)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deletes token", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{}
		svc := NewAuthService(&mockUserRepository{}, tokenRepo, newTestTokenGenerator())

		err := svc.Logout(context.Background(), "some-refresh-token")

		require.NoError(t, err)
		assert.True(t, tokenRepo.deleted)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{err: errors.New("should not be called")}
		svc := NewAuthService(&mockUserRepository{}, tokenRepo, newTestTokenGenerator())

		err := svc.Logout(context.Background(), "  ")

		assert.NoError(t, err)
		assert.False(t, tokenRepo.deleted)
	})
}
