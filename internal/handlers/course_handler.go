package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vocalcoach/backend/internal/auth/middleware"
	"github.com/vocalcoach/backend/internal/models"
)

// CourseService is the interface that wraps methods for course business logic
type CourseService interface {
	// CreateCourse creates a course owned by the calling instructor.
	CreateCourse(ctx context.Context, identity *models.Identity, req *models.SaveCourseRequest) (*models.Course, error)
	// UpdateCourse rewrites a course owned by the calling instructor.
	UpdateCourse(ctx context.Context, identity *models.Identity, courseID int, req *models.SaveCourseRequest) (*models.Course, error)
	// GetCourse retrieves a single course with relations.
	GetCourse(ctx context.Context, courseID int) (*models.Course, error)
	// ListCourses retrieves the course catalog.
	ListCourses(ctx context.Context, instructorID *int) ([]models.Course, error)
}

// EnrollmentService is the interface that wraps methods for enrollment business logic
type EnrollmentService interface {
	// Enroll enrolls the calling student into a course.
	Enroll(ctx context.Context, identity *models.Identity, courseID int) (*models.Enrollment, error)
}

// CourseHandler handles course catalog and enrollment HTTP requests
type CourseHandler struct {
	BaseHandler
	courseService     CourseService
	enrollmentService EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(
	courseService CourseService,
	enrollmentService EnrollmentService,
	logger *zap.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes registers all course handler routes. Reads are public;
// writes require the authenticate middleware.
// Note: This assumes the router is already scoped to /api/v1
func (h *CourseHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/{id}", h.GetCourse)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.CreateCourse)
			r.Put("/{id}", h.UpdateCourse)
			r.Post("/{id}/enroll", h.Enroll)
		})
	})
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description List the course catalog, optionally filtered to one instructor.
// @Tags courses
// @Produce json
// @Param instructorId query int false "Filter by owning instructor ID"
// @Success 200 {array} models.Course
// @Failure 400 {object} map[string]string "Invalid instructor filter"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	var instructorID *int
	if raw := r.URL.Query().Get("instructorId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid instructorId filter")
			return
		}
		instructorID = &id
	}

	courses, err := h.courseService.ListCourses(r.Context(), instructorID)
	if err != nil {
		h.Logger.Error("failed to list courses", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{id}
// @Summary Get a course
// @Description Get a course with its lessons, instructor and enrolled students.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseIDFromURL(w, r)
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// CreateCourse handles POST /courses
// @Summary Create a course
// @Description Create a course with its lessons. Instructor role required.
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.SaveCourseRequest true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Instructor role required"
// @Router /courses [post]
// @Security BearerAuth
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.SaveCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), identity, &req)
	if err != nil {
		h.Logger.Warn("failed to create course", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// UpdateCourse handles PUT /courses/{id}
// @Summary Update a course
// @Description Rewrite a course. The submitted lesson list replaces the stored one. Owning instructor only.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.SaveCourseRequest true "Course payload"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Not the owning instructor"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [put]
// @Security BearerAuth
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courseID, ok := h.courseIDFromURL(w, r)
	if !ok {
		return
	}

	var req models.SaveCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), identity, courseID, &req)
	if err != nil {
		h.Logger.Warn("failed to update course", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll into a course
// @Description Enroll the calling student into a course. Student role required.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]string "Already enrolled"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Student role required"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id}/enroll [post]
// @Security BearerAuth
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courseID, ok := h.courseIDFromURL(w, r)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), identity, courseID)
	if err != nil {
		h.Logger.Warn("failed to enroll", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// courseIDFromURL parses the {id} URL parameter, responding with 400 on
// a malformed value.
func (h *CourseHandler) courseIDFromURL(w http.ResponseWriter, r *http.Request) (int, bool) {
	courseID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || courseID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid course id")
		return 0, false
	}
	return courseID, true
}
