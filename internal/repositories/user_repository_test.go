package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocalcoach/backend/internal/models"
)

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		user          *models.User
		setupMock     func(mock sqlmock.Sqlmock)
		wantProfileID int
		wantErr       error
	}{
		{
			name: "creates student with profile",
			user: &models.User{
				Email:        "student@example.com",
				FullName:     "Test Student",
				PasswordHash: "hash",
				Role:         models.RoleStudent,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
					WithArgs("student@example.com", "Test Student", "hash", models.RoleStudent).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO students (user_id) VALUES (?)`)).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(10, 1))
				mock.ExpectCommit()
			},
			wantProfileID: 10,
		},
		{
			name: "creates instructor with profile",
			user: &models.User{
				Email:        "instructor@example.com",
				FullName:     "Test Instructor",
				PasswordHash: "hash",
				Role:         models.RoleInstructor,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
					WithArgs("instructor@example.com", "Test Instructor", "hash", models.RoleInstructor).
					WillReturnResult(sqlmock.NewResult(2, 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO instructors (user_id) VALUES (?)`)).
					WithArgs(2).
					WillReturnResult(sqlmock.NewResult(20, 1))
				mock.ExpectCommit()
			},
			wantProfileID: 20,
		},
		{
			name: "duplicate email returns conflict",
			user: &models.User{
				Email:        "taken@example.com",
				FullName:     "Test User",
				PasswordHash: "hash",
				Role:         models.RoleStudent,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
					WithArgs("taken@example.com", "Test User", "hash", models.RoleStudent).
					WillReturnError(&mysql.MySQLError{Number: 1062})
				mock.ExpectRollback()
			},
			wantErr: models.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(db)
			profileID, err := repo.Create(context.Background(), tt.user)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantProfileID, profileID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		setupMock func(mock sqlmock.Sqlmock)
		wantUser  *models.User
		wantErr   error
	}{
		{
			name:  "found",
			email: "user@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "email", "full_name", "password_hash", "role"}).
					AddRow(1, "user@example.com", "Test User", "hash", models.RoleStudent)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, full_name, password_hash, role`)).
					WithArgs("user@example.com").
					WillReturnRows(rows)
			},
			wantUser: &models.User{
				ID:           1,
				Email:        "user@example.com",
				FullName:     "Test User",
				PasswordHash: "hash",
				Role:         models.RoleStudent,
			},
		},
		{
			name:  "not found",
			email: "missing@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, full_name, password_hash, role`)).
					WithArgs("missing@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(db)
			user, err := repo.GetByEmail(context.Background(), tt.email)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUser, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		setupMock  func(mock sqlmock.Sqlmock)
		wantExists bool
	}{
		{
			name:  "exists",
			email: "taken@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
					WithArgs("taken@example.com").
					WillReturnRows(rows)
			},
			wantExists: true,
		},
		{
			name:  "does not exist",
			email: "new@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"exists"}).AddRow(false)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
					WithArgs("new@example.com").
					WillReturnRows(rows)
			},
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(db)
			exists, err := repo.ExistsByEmail(context.Background(), tt.email)

			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetIdentity(t *testing.T) {
	tests := []struct {
		name         string
		userID       int
		setupMock    func(mock sqlmock.Sqlmock)
		wantIdentity *models.Identity
		wantErr      error
	}{
		{
			name:   "student identity uses student profile id",
			userID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "role", "student_id", "instructor_id"}).
					AddRow(1, models.RoleStudent, 5, 0)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT u.id, u.role`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			wantIdentity: &models.Identity{UserID: 1, Role: models.RoleStudent, ProfileID: 5},
		},
		{
			name:   "instructor identity uses instructor profile id",
			userID: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "role", "student_id", "instructor_id"}).
					AddRow(2, models.RoleInstructor, 0, 7)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT u.id, u.role`)).
					WithArgs(2).
					WillReturnRows(rows)
			},
			wantIdentity: &models.Identity{UserID: 2, Role: models.RoleInstructor, ProfileID: 7},
		},
		{
			name:   "unknown user",
			userID: 99,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT u.id, u.role`)).
					WithArgs(99).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(db)
			identity, err := repo.GetIdentity(context.Background(), tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantIdentity, identity)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
