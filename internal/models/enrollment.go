package models

import "time"

// Enrollment is the join record granting a student access to a course.
// At most one enrollment exists per (student, course) pair; the database
// unique key is the source of truth for that invariant.
type Enrollment struct {
	ID                 int       `json:"enrollmentId"`
	StudentID          int       `json:"studentId"`
	CourseID           int       `json:"courseId"`
	ProgressCompletion string    `json:"progressCompletion"`
	CreatedAt          time.Time `json:"createdAt"`
	Student            *Student  `json:"student,omitempty"`
}
