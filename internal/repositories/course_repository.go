package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vocalcoach/backend/internal/models"
)

// courseRepository implements course and lesson data access
type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// Create inserts a course and its lessons in one transaction, so a
// half-written course is never observable. Sets course.ID on success.
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO courses (name, description, instructor_id)
		VALUES (?, ?, ?)
	`, course.Name, course.Description, course.InstructorID)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	course.ID = int(id)

	if err := insertLessons(ctx, tx, course.ID, course.Lessons); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update rewrites the course row and replaces its whole lesson list in
// one transaction: all existing lessons are deleted and the submitted
// list is inserted in order. Partial replacement is never observable.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE courses
		SET name = ?, description = ?
		WHERE id = ?
	`, course.Name, course.Description, course.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// The row may exist with identical values; verify before 404ing
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = ?)`, course.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check course existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: course not found", models.ErrNotFound)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE course_id = ?`, course.ID); err != nil {
		return fmt.Errorf("failed to delete lessons: %w", err)
	}

	if err := insertLessons(ctx, tx, course.ID, course.Lessons); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertLessons inserts the lesson list for a course in submission order
// with a single multi-row insert.
func insertLessons(ctx context.Context, tx *sql.Tx, courseID int, lessons []models.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	placeholders := make([]string, len(lessons))
	args := []any{}
	for i, lesson := range lessons {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, courseID, lesson.Name, lesson.Description,
			nullable(lesson.PracticeGuide), nullable(lesson.VideoURI), nullable(lesson.AudioURI), i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO lessons (course_id, name, description, practice_guide, video_uri, audio_uri, position)
		VALUES %s
	`, strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert lessons: %w", err)
	}

	return nil
}

// nullable maps the empty string to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetByID retrieves a course with its lessons (in position order), the
// owning instructor with its user, and the enrolled students.
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `
		SELECT c.id, c.name, c.description, c.instructor_id,
		       i.user_id, u.id, u.email, u.full_name, u.role
		FROM courses c
		JOIN instructors i ON i.id = c.instructor_id
		JOIN users u ON u.id = i.user_id
		WHERE c.id = ?
		LIMIT 1
	`

	course := &models.Course{Instructor: &models.Instructor{User: &models.User{}}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.InstructorID,
		&course.Instructor.UserID,
		&course.Instructor.User.ID,
		&course.Instructor.User.Email,
		&course.Instructor.User.FullName,
		&course.Instructor.User.Role,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: course not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	course.Instructor.ID = course.InstructorID
	course.Instructor.User.ID = course.Instructor.UserID

	lessons, err := r.getLessons(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Lessons = lessons

	enrollments, err := r.getEnrollments(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Enrollments = enrollments

	return course, nil
}

// getLessons retrieves all lessons for a course sorted by position
func (r *courseRepository) getLessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, name, description,
		       COALESCE(practice_guide, ''), COALESCE(video_uri, ''), COALESCE(audio_uri, ''), position
		FROM lessons
		WHERE course_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var lesson models.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Name,
			&lesson.Description,
			&lesson.PracticeGuide,
			&lesson.VideoURI,
			&lesson.AudioURI,
			&lesson.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// getEnrollments retrieves enrollments for a course with student users
func (r *courseRepository) getEnrollments(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.progress_completion, e.created_at,
		       s.user_id, u.email, u.full_name, u.role
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN users u ON u.id = s.user_id
		WHERE e.course_id = ?
		ORDER BY e.id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		enrollment := models.Enrollment{Student: &models.Student{User: &models.User{}}}
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.CourseID,
			&enrollment.ProgressCompletion,
			&enrollment.CreatedAt,
			&enrollment.Student.UserID,
			&enrollment.Student.User.Email,
			&enrollment.Student.User.FullName,
			&enrollment.Student.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollment.Student.ID = enrollment.StudentID
		enrollment.Student.User.ID = enrollment.Student.UserID
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, nil
}

// List retrieves all courses, or only those owned by the given
// instructor when instructorID is not nil. Relations are not loaded.
func (r *courseRepository) List(ctx context.Context, instructorID *int) ([]models.Course, error) {
	query := `
		SELECT id, name, description, instructor_id
		FROM courses
	`
	args := []any{}
	if instructorID != nil {
		query += ` WHERE instructor_id = ?`
		args = append(args, *instructorID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Description,
			&course.InstructorID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// GetOwner returns the owning instructor ID for a course
func (r *courseRepository) GetOwner(ctx context.Context, courseID int) (int, error) {
	query := `SELECT instructor_id FROM courses WHERE id = ? LIMIT 1`

	var instructorID int
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(&instructorID)

	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: course not found", models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get course owner: %w", err)
	}

	return instructorID, nil
}
