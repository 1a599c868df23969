package app

import (
	"context"

	"classroom-service/internal/domain"
	"classroom-service/internal/stats"
)

type StatsStore interface {
	ListAttendance(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceEntry, error)
	ListScores(ctx context.Context, f domain.ScoreFilter) ([]domain.AssessmentScore, error)
	ListStudents(ctx context.Context, f domain.StudentFilter) ([]domain.Student, error)
	StudentByID(ctx context.Context, id string) (domain.Student, error)
}

// StatsService serves the teacher dashboard charts.
type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Weekly counts present entries per weekday in the seven days from weekStart.
func (s *StatsService) Weekly(ctx context.Context, groupID, weekStart string) ([]stats.DayCount, error) {
	if groupID == "" || weekStart == "" {
		return nil, domain.Invalid("group_id and week_start are required")
	}
	from, to, err := stats.WeekRange(weekStart)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListAttendance(ctx, domain.AttendanceFilter{GroupID: groupID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	return stats.WeeklyPresent(entries), nil
}

func (s *StatsService) Daily(ctx context.Context, groupID, date string) (stats.DailyCount, error) {
	if groupID == "" || date == "" {
		return stats.DailyCount{}, domain.Invalid("group_id and date are required")
	}
	entries, err := s.store.ListAttendance(ctx, domain.AttendanceFilter{GroupID: groupID, Date: date})
	if err != nil {
		return stats.DailyCount{}, err
	}
	return stats.Daily(entries), nil
}

func (s *StatsService) StudentPercentages(ctx context.Context, groupID, month string) ([]stats.StudentPercent, error) {
	if groupID == "" || month == "" {
		return nil, domain.Invalid("group_id and month are required")
	}
	entries, err := s.store.ListAttendance(ctx, domain.AttendanceFilter{GroupID: groupID, Month: month})
	if err != nil {
		return nil, err
	}
	students, err := s.store.ListStudents(ctx, domain.StudentFilter{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	return stats.StudentPercentages(students, entries), nil
}

func (s *StatsService) MonthlyCategories(ctx context.Context, groupID, month string) ([]stats.CategoryRow, error) {
	if groupID == "" || month == "" {
		return nil, domain.Invalid("group_id and month are required")
	}
	scores, err := s.store.ListScores(ctx, domain.ScoreFilter{GroupID: groupID, Month: month})
	if err != nil {
		return nil, err
	}
	return stats.CategoryPercentages(scores), nil
}

// StudentSummary is the month's attendance and assessment percentages for one student.
func (s *StatsService) StudentSummary(ctx context.Context, studentID, month string) (domain.StudentSummary, error) {
	if studentID == "" || month == "" {
		return domain.StudentSummary{}, domain.Invalid("student_id and month are required")
	}
	student, err := s.store.StudentByID(ctx, studentID)
	if err != nil {
		return domain.StudentSummary{}, err
	}
	return summarize(ctx, s.store, student, month)
}

func summarize(ctx context.Context, store StatsStore, student domain.Student, month string) (domain.StudentSummary, error) {
	entries, err := store.ListAttendance(ctx, domain.AttendanceFilter{StudentID: student.ID, Month: month})
	if err != nil {
		return domain.StudentSummary{}, err
	}
	scores, err := store.ListScores(ctx, domain.ScoreFilter{StudentID: student.ID, Month: month})
	if err != nil {
		return domain.StudentSummary{}, err
	}
	return domain.StudentSummary{
		ID:                student.ID,
		Name:              student.Name,
		ProfilePicture:    student.ProfilePicture,
		AttendancePercent: stats.AttendancePercent(entries),
		AssessmentPercent: stats.ScorePercent(scores),
	}, nil
}
