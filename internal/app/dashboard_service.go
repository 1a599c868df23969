package app

import (
	"context"
	"errors"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/stats"
)

type DashboardStore interface {
	StatsStore
	StudentByClerkID(ctx context.Context, clerkUserID string) (domain.Student, error)
	ListLessonPlans(ctx context.Context, f domain.LessonPlanFilter) ([]domain.LessonPlan, error)
	Report(ctx context.Context, studentID, month string) (domain.AIReport, error)
}

// StudentDashboard is the signed-in student's landing card.
type StudentDashboard struct {
	Name              string `json:"name"`
	Group             string `json:"group"`
	Month             string `json:"month"`
	AttendancePercent int    `json:"attendancePercent"`
	AssessmentPercent int    `json:"assessmentPercent"`
}

// ReportView is the part of a report a student may read.
type ReportView struct {
	Content        string `json:"content"`
	TeacherComment string `json:"teacher_comment"`
}

// DashboardService serves students looking at their own data.
type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Student resolves the student row linked to an identity-provider id.
func (s *DashboardService) Student(ctx context.Context, clerkUserID string) (domain.Student, error) {
	if clerkUserID == "" {
		return domain.Student{}, domain.Invalid("clerk_user_id is required")
	}
	return s.store.StudentByClerkID(ctx, clerkUserID)
}

// Summary is StudentSummary keyed by identity-provider id.
func (s *DashboardService) Summary(ctx context.Context, clerkUserID, month string) (domain.StudentSummary, error) {
	if month == "" {
		return domain.StudentSummary{}, domain.Invalid("month is required")
	}
	student, err := s.store.StudentByClerkID(ctx, clerkUserID)
	if err != nil {
		return domain.StudentSummary{}, err
	}
	return summarize(ctx, s.store, student, month)
}

// Overview covers the current calendar month.
func (s *DashboardService) Overview(ctx context.Context, clerkUserID string) (StudentDashboard, error) {
	student, err := s.store.StudentByClerkID(ctx, clerkUserID)
	if err != nil {
		return StudentDashboard{}, err
	}
	month := stats.MonthLabel(s.now())
	sum, err := summarize(ctx, s.store, student, month)
	if err != nil {
		return StudentDashboard{}, err
	}
	out := StudentDashboard{
		Name:              student.Name,
		Month:             month,
		AttendancePercent: sum.AttendancePercent,
		AssessmentPercent: sum.AssessmentPercent,
	}
	if student.Group != nil {
		out.Group = student.Group.Name
	}
	return out, nil
}

// Lessons lists the month's lesson plans for the student's group.
func (s *DashboardService) Lessons(ctx context.Context, clerkUserID, month, language string) ([]domain.LessonPlan, error) {
	if clerkUserID == "" || month == "" || language == "" {
		return nil, domain.Invalid("clerk_user_id, month and language are required")
	}
	student, err := s.store.StudentByClerkID(ctx, clerkUserID)
	if err != nil {
		return nil, err
	}
	if student.GroupID == "" {
		return nil, domain.Invalid("student is not assigned to any group")
	}
	return s.store.ListLessonPlans(ctx, domain.LessonPlanFilter{Month: month, Language: language, GroupID: student.GroupID})
}

// Report returns nil when nothing has been written for the month yet.
func (s *DashboardService) Report(ctx context.Context, studentID, month string) (*ReportView, error) {
	if studentID == "" || month == "" {
		return nil, domain.Invalid("student_id and month are required")
	}
	r, err := s.store.Report(ctx, studentID, month)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ReportView{Content: r.Content, TeacherComment: r.TeacherComment}, nil
}
