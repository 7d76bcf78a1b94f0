package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vocalcoach/backend/internal/auth/service"
	"github.com/vocalcoach/backend/internal/models"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Create inserts a new user with its role profile row and returns the profile ID.
	Create(ctx context.Context, user *models.User) (int, error)
	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// ExistsByEmail checks if a user with such email exists. Advisory;
	// the unique key on email decides under concurrent registrations.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Create inserts a new refresh token.
	Create(ctx context.Context, userToken *models.UserToken) error
	// GetByToken retrieves a refresh token record by token string.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// UpdateToken replaces an old refresh token with a new one for a user.
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error
	// DeleteByToken deletes a refresh token by token string.
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements registration, login and token rotation
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *service.TokenGenerator
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *service.TokenGenerator,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates a new user account together with its role profile.
// The database unique key on email decides uniqueness; a duplicate
// surfaces as models.ErrConflict regardless of interleaving.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))

	if normalizedEmail == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" || req.Role == "" {
		return fmt.Errorf("%w: email, password, fullName and role are required", models.ErrValidation)
	}
	if !emailRegex.MatchString(normalizedEmail) {
		return fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: user already exists", models.ErrConflict)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizedEmail,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	return nil
}

// Login authenticates a user and returns access and refresh tokens.
// Unknown email and wrong password produce the same error, so the
// response does not reveal which accounts exist.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	if normalizedEmail == "" || req.Password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}

	return s.generateAndSaveTokens(ctx, user.ID, user.Role)
}

// Refresh rotates a refresh token: the presented token must both verify
// and exist in the database, and is replaced by a new one on success.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", fmt.Errorf("%w: refresh token is required", models.ErrUnauthorized)
	}

	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		// Expired or forged tokens are removed so they cannot linger
		s.userTokenRepo.DeleteByToken(ctx, refreshToken)
		return "", "", fmt.Errorf("%w: invalid or expired refresh token", models.ErrUnauthorized)
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid or expired refresh token", models.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return "", "", err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(userToken.UserID, int(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, userToken.UserID); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout invalidates a refresh token. Deleting an unknown token is not
// an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.userTokenRepo.DeleteByToken(ctx, refreshToken)
}

// generateAndSaveTokens generates an access/refresh token pair and
// persists the refresh token.
func (s *authService) generateAndSaveTokens(ctx context.Context, userID int, role models.Role) (string, string, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(userID, int(role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID: userID,
		Token:  refreshToken,
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
