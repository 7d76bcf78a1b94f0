package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vocalcoach/backend/internal/models"
)

// userRepository implements UserRepository
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

// Create inserts a new user together with its role profile row (students
// or instructors, depending on user.Role) in one transaction, so a user
// never exists without exactly one profile. Returns the profile ID.
// A duplicate email surfaces as models.ErrConflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, full_name, password_hash, role)
		VALUES (?, ?, ?, ?)
	`, user.Email, user.FullName, user.PasswordHash, user.Role)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, fmt.Errorf("%w: user already exists", models.ErrConflict)
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = int(userID)

	var profileQuery string
	switch user.Role {
	case models.RoleStudent:
		profileQuery = `INSERT INTO students (user_id) VALUES (?)`
	case models.RoleInstructor:
		profileQuery = `INSERT INTO instructors (user_id) VALUES (?)`
	default:
		return 0, fmt.Errorf("%w: unknown role %d", models.ErrValidation, user.Role)
	}

	result, err = tx.ExecContext(ctx, profileQuery, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create role profile: %w", err)
	}

	profileID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return int(profileID), nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, password_hash, role
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Role,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `
		SELECT id, email, full_name, password_hash, role
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Role,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// GetIdentity resolves the caller identity for a user: role plus the ID
// of the matching role profile row.
func (r *userRepository) GetIdentity(ctx context.Context, userID int) (*models.Identity, error) {
	query := `
		SELECT u.id, u.role, COALESCE(s.id, 0), COALESCE(i.id, 0)
		FROM users u
		LEFT JOIN students s ON s.user_id = u.id
		LEFT JOIN instructors i ON i.user_id = u.id
		WHERE u.id = ?
		LIMIT 1
	`

	var identity models.Identity
	var studentID, instructorID int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&identity.UserID,
		&identity.Role,
		&studentID,
		&instructorID,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	switch identity.Role {
	case models.RoleStudent:
		identity.ProfileID = studentID
	case models.RoleInstructor:
		identity.ProfileID = instructorID
	}

	return &identity, nil
}
