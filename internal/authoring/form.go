package authoring

import (
	"context"
	"errors"
	"strings"

	"github.com/vocalcoach/backend/internal/models"
)

// State is the lifecycle state of an authoring form
type State int

const (
	StateIdle State = iota
	StateEditing
	StateSubmitting
	StateSuccess
	StateFailed
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LessonField names an editable lesson draft field
type LessonField string

const (
	LessonFieldName          LessonField = "lessonName"
	LessonFieldDescription   LessonField = "lessonDescription"
	LessonFieldPracticeGuide LessonField = "practiceGuide"
	LessonFieldVideoURI      LessonField = "videoUri"
	LessonFieldAudioURI      LessonField = "audioUri"
)

// ErrSubmitInProgress is returned when Submit is called while a previous
// submission has not finished.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Submitter sends a course snapshot to the backend. Implemented by Client.
type Submitter interface {
	CreateCourse(ctx context.Context, req *models.SaveCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID int, req *models.SaveCourseRequest) (*models.Course, error)
}

// Form is the course authoring draft. It collects the course fields,
// a tag set and an ordered lesson list, and submits a snapshot through
// a Submitter. Forms are not safe for concurrent use.
type Form struct {
	submitter Submitter

	courseID    int
	name        string
	description string
	tags        []string
	lessons     []models.LessonInput

	state  State
	errMsg string
}

// NewForm creates an empty form for a new course
func NewForm(submitter Submitter) *Form {
	return &Form{
		submitter: submitter,
		state:     StateIdle,
	}
}

// NewFormFromCourse creates a form pre-filled from an existing course,
// binding it so Submit issues an update instead of a create.
func NewFormFromCourse(submitter Submitter, course *models.Course) *Form {
	f := &Form{
		submitter:   submitter,
		courseID:    course.ID,
		name:        course.Name,
		description: course.Description,
		state:       StateIdle,
	}
	for _, lesson := range course.Lessons {
		input := models.LessonInput{
			Name:          lesson.Name,
			Description:   lesson.Description,
			PracticeGuide: lesson.PracticeGuide,
		}
		if lesson.VideoURI != "" {
			input.Video = &models.MediaRef{Kind: models.MediaKindVideo, URI: lesson.VideoURI}
		}
		if lesson.AudioURI != "" {
			input.Audio = &models.MediaRef{Kind: models.MediaKindAudio, URI: lesson.AudioURI}
		}
		f.lessons = append(f.lessons, input)
	}
	return f
}

// State returns the current form state
func (f *Form) State() State { return f.state }

// ErrorMessage returns the message of the last failed submission. It is
// kept across edits and cleared when the next submission starts.
func (f *Form) ErrorMessage() string { return f.errMsg }

// CourseID returns the bound course ID, 0 for an unsaved course
func (f *Form) CourseID() int { return f.courseID }

// Name returns the draft course name
func (f *Form) Name() string { return f.name }

// Description returns the draft course description
func (f *Form) Description() string { return f.description }

// Tags returns the collected tags in insertion order
func (f *Form) Tags() []string { return f.tags }

// Lessons returns the draft lesson list in order
func (f *Form) Lessons() []models.LessonInput { return f.lessons }

// SetName updates the course name
func (f *Form) SetName(name string) {
	f.edit()
	f.name = name
}

// SetDescription updates the course description
func (f *Form) SetDescription(description string) {
	f.edit()
	f.description = description
}

// AddTag adds a trimmed tag. Exact duplicates are ignored; insertion
// order is preserved. Tags are collected for the authoring UI only and
// are not part of the submitted payload.
func (f *Form) AddTag(tag string) {
	f.edit()
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range f.tags {
		if existing == tag {
			return
		}
	}
	f.tags = append(f.tags, tag)
}

// RemoveTag removes the first tag exactly matching the given value
func (f *Form) RemoveTag(tag string) {
	f.edit()
	for i, existing := range f.tags {
		if existing == tag {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return
		}
	}
}

// AddLesson appends an empty lesson draft and returns its index
func (f *Form) AddLesson() int {
	f.edit()
	f.lessons = append(f.lessons, models.LessonInput{})
	return len(f.lessons) - 1
}

// UpdateLesson sets one field of the lesson at index. Out-of-range
// indexes and unknown fields are ignored.
func (f *Form) UpdateLesson(index int, field LessonField, value string) {
	f.edit()
	if index < 0 || index >= len(f.lessons) {
		return
	}
	lesson := &f.lessons[index]
	switch field {
	case LessonFieldName:
		lesson.Name = value
	case LessonFieldDescription:
		lesson.Description = value
	case LessonFieldPracticeGuide:
		lesson.PracticeGuide = value
	case LessonFieldVideoURI:
		if value == "" {
			lesson.Video = nil
		} else {
			lesson.Video = &models.MediaRef{Kind: models.MediaKindVideo, URI: value}
		}
	case LessonFieldAudioURI:
		if value == "" {
			lesson.Audio = nil
		} else {
			lesson.Audio = &models.MediaRef{Kind: models.MediaKindAudio, URI: value}
		}
	}
}

// RemoveLesson removes the lesson at index; later lessons shift down.
// Out-of-range indexes are ignored.
func (f *Form) RemoveLesson(index int) {
	f.edit()
	if index < 0 || index >= len(f.lessons) {
		return
	}
	f.lessons = append(f.lessons[:index], f.lessons[index+1:]...)
}

// Submit sends the current snapshot. A form bound to a course ID issues
// an update, otherwise a create; on success the returned course is bound
// for subsequent submissions. Calling Submit while a submission is in
// flight returns ErrSubmitInProgress without touching the draft.
func (f *Form) Submit(ctx context.Context) (*models.Course, error) {
	if f.state == StateSubmitting {
		return nil, ErrSubmitInProgress
	}

	f.state = StateSubmitting
	f.errMsg = ""

	req := &models.SaveCourseRequest{
		Name:        f.name,
		Description: f.description,
		Lessons:     append([]models.LessonInput(nil), f.lessons...),
	}

	var course *models.Course
	var err error
	if f.courseID == 0 {
		course, err = f.submitter.CreateCourse(ctx, req)
	} else {
		course, err = f.submitter.UpdateCourse(ctx, f.courseID, req)
	}

	if err != nil {
		f.state = StateFailed
		f.errMsg = submitErrorMessage(err)
		return nil, err
	}

	f.state = StateSuccess
	f.courseID = course.ID
	return course, nil
}

// edit moves the form into Editing. A failure message from the last
// submission is retained so it stays visible while the user corrects
// the draft; only the next Submit clears it.
func (f *Form) edit() {
	if f.state == StateSubmitting {
		return
	}
	f.state = StateEditing
}

// submitErrorMessage extracts the user-facing message for a failed
// submission: server messages verbatim, a fixed line for timeouts.
func submitErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrTimeout) {
		return "the request timed out, please try again"
	}
	return err.Error()
}
