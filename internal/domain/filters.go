package domain

// AttendanceFilter narrows attendance queries; blank fields are ignored.
type AttendanceFilter struct {
	Month     string
	GroupID   string
	StudentID string
	Date      string
	From, To  string
	// WithStudent joins the student and filters the group through the
	// student's current membership instead of the entry's own group_id.
	WithStudent bool
}

// ScoreFilter narrows score listings. GroupID matches the student's group.
type ScoreFilter struct {
	Month     string
	Language  string
	Week      string
	GroupID   string
	StudentID string
}

type LessonPlanFilter struct {
	Month    string
	Language string
	GroupID  string
	Week     string
}

// StudentFilter narrows the student listing. A non-nil empty GroupIDs matches nothing.
type StudentFilter struct {
	GroupID  string
	GroupIDs []string
}

type StudentAnswerFilter struct {
	StudentID string
	QuizID    string
}
