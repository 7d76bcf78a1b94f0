package models

// Course represents a course owned by exactly one instructor
type Course struct {
	ID           int          `json:"courseId"`
	Name         string       `json:"courseName"`
	Description  string       `json:"courseDescription"`
	InstructorID int          `json:"courseInstructorId"`
	Lessons      []Lesson     `json:"courseLessons"`
	Instructor   *Instructor  `json:"courseInstructor,omitempty"`
	Enrollments  []Enrollment `json:"studentEnrolled,omitempty"`
}

// LessonInput is a lesson as submitted by the authoring flow. Media
// references are optional tagged unions validated at the boundary.
type LessonInput struct {
	Name          string    `json:"lessonName"`
	Description   string    `json:"lessonDescription"`
	PracticeGuide string    `json:"practiceGuide,omitempty"`
	Video         *MediaRef `json:"video,omitempty"`
	Audio         *MediaRef `json:"audio,omitempty"`
}

// SaveCourseRequest is the payload for both course creation and update.
// An update replaces the whole lesson list with the submitted one.
type SaveCourseRequest struct {
	Name        string        `json:"courseName"`
	Description string        `json:"courseDescription"`
	Lessons     []LessonInput `json:"lessons"`
}
