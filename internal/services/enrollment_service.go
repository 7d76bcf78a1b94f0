package services

import (
	"context"
	"fmt"

	"github.com/vocalcoach/backend/internal/models"
)

// EnrollmentRepository is the interface that wraps methods for Enrollment table data access
type EnrollmentRepository interface {
	// Create inserts an enrollment; a duplicate pair surfaces as models.ErrConflict.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	// Exists checks if an enrollment exists for the (student, course) pair.
	Exists(ctx context.Context, studentID, courseID int) (bool, error)
}

// enrollmentService implements student enrollment
type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentRepository, courseRepo CourseRepository) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

// Enroll enrolls the calling student into a course. The Exists check is
// advisory; the unique key on (student, course) decides under concurrent
// requests, and the repository maps that violation to models.ErrConflict.
func (s *enrollmentService) Enroll(ctx context.Context, identity *models.Identity, courseID int) (*models.Enrollment, error) {
	if identity.Role != models.RoleStudent {
		return nil, fmt.Errorf("%w: only students can enroll in courses", models.ErrForbidden)
	}

	if _, err := s.courseRepo.GetOwner(ctx, courseID); err != nil {
		return nil, err
	}

	exists, err := s.enrollmentRepo.Exists(ctx, identity.ProfileID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already enrolled in this course", models.ErrConflict)
	}

	enrollment := &models.Enrollment{
		StudentID:          identity.ProfileID,
		CourseID:           courseID,
		ProgressCompletion: "0",
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}
