package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocalcoach/backend/internal/models"
)

// CourseRepository is the interface that wraps methods for Course and Lesson table data access
type CourseRepository interface {
	// Create inserts a course with its lessons and sets course.ID.
	Create(ctx context.Context, course *models.Course) error
	// Update rewrites the course row and replaces its lesson list.
	Update(ctx context.Context, course *models.Course) error
	// GetByID retrieves a course with lessons, instructor and enrollments.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// List retrieves courses, optionally filtered by owning instructor.
	List(ctx context.Context, instructorID *int) ([]models.Course, error)
	// GetOwner returns the owning instructor ID for a course.
	GetOwner(ctx context.Context, courseID int) (int, error)
}

// courseService implements course catalog and authoring operations
type courseService struct {
	courseRepo CourseRepository
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo CourseRepository) *courseService {
	return &courseService{
		courseRepo: courseRepo,
	}
}

// CreateCourse creates a course owned by the calling instructor and
// returns it with all relations loaded.
func (s *courseService) CreateCourse(ctx context.Context, identity *models.Identity, req *models.SaveCourseRequest) (*models.Course, error) {
	if identity.Role != models.RoleInstructor {
		return nil, fmt.Errorf("%w: only instructors can create courses", models.ErrForbidden)
	}

	lessons, err := validateSaveRequest(req)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		InstructorID: identity.ProfileID,
		Lessons:      lessons,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, course.ID)
}

// UpdateCourse rewrites a course owned by the calling instructor. The
// submitted lesson list replaces the stored one wholesale.
func (s *courseService) UpdateCourse(ctx context.Context, identity *models.Identity, courseID int, req *models.SaveCourseRequest) (*models.Course, error) {
	if identity.Role != models.RoleInstructor {
		return nil, fmt.Errorf("%w: only instructors can edit courses", models.ErrForbidden)
	}

	owner, err := s.courseRepo.GetOwner(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if owner != identity.ProfileID {
		return nil, fmt.Errorf("%w: course belongs to another instructor", models.ErrForbidden)
	}

	lessons, err := validateSaveRequest(req)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:          courseID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Lessons:     lessons,
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, courseID)
}

// GetCourse retrieves a single course with relations
func (s *courseService) GetCourse(ctx context.Context, courseID int) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, courseID)
}

// ListCourses retrieves the course catalog, optionally filtered to one
// instructor's courses.
func (s *courseService) ListCourses(ctx context.Context, instructorID *int) ([]models.Course, error) {
	return s.courseRepo.List(ctx, instructorID)
}

// validateSaveRequest checks a save payload and converts the lesson
// inputs into persistence lessons in submission order.
func validateSaveRequest(req *models.SaveCourseRequest) ([]models.Lesson, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: course name is required", models.ErrValidation)
	}

	lessons := make([]models.Lesson, 0, len(req.Lessons))
	for i, input := range req.Lessons {
		if strings.TrimSpace(input.Name) == "" {
			return nil, fmt.Errorf("%w: lesson %d name is required", models.ErrValidation, i+1)
		}

		lesson := models.Lesson{
			Name:          strings.TrimSpace(input.Name),
			Description:   input.Description,
			PracticeGuide: input.PracticeGuide,
		}

		if input.Video != nil {
			if err := input.Video.Validate(models.MediaKindVideo); err != nil {
				return nil, err
			}
			lesson.VideoURI = input.Video.URI
		}
		if input.Audio != nil {
			if err := input.Audio.Validate(models.MediaKindAudio); err != nil {
				return nil, err
			}
			lesson.AudioURI = input.Audio.URI
		}

		lessons = append(lessons, lesson)
	}

	return lessons, nil
}
