package models

// Lesson belongs to exactly one course. Lessons are replaced wholesale on
// every course update, so their IDs are not stable across edits; Position
// preserves the submission order.
type Lesson struct {
	ID            int    `json:"lessonId"`
	CourseID      int    `json:"courseId"`
	Name          string `json:"lessonName"`
	Description   string `json:"lessonDescription"`
	PracticeGuide string `json:"practiceGuide,omitempty"`
	VideoURI      string `json:"videoUri,omitempty"`
	AudioURI      string `json:"audioUri,omitempty"`
	Position      int    `json:"-"`
}
