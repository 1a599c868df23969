package app

import (
	"context"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/stats"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AttendanceStore interface {
	ListAttendance(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceEntry, error)
	UpsertAttendance(ctx context.Context, e domain.AttendanceEntry) (domain.AttendanceEntry, error)
	UpdateAttendanceStatus(ctx context.Context, id string, status domain.AttendanceStatus) (domain.AttendanceEntry, error)
	AttendanceDays(ctx context.Context, from, to string) (map[string]map[string]bool, error)
	InsertIfAbsent(ctx context.Context, entries []domain.AttendanceEntry) (int, error)
	ListStudents(ctx context.Context, f domain.StudentFilter) ([]domain.Student, error)
	StudentByID(ctx context.Context, id string) (domain.Student, error)
}

type AttendanceService struct {
	store AttendanceStore
	log   zerolog.Logger
	newID func() string
}

func NewAttendanceService(store AttendanceStore, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{store: store, log: log, newID: uuid.NewString}
}

// List returns the month's entries for a group, each with its student.
func (s *AttendanceService) List(ctx context.Context, month, groupID string) ([]domain.AttendanceEntry, error) {
	return s.store.ListAttendance(ctx, domain.AttendanceFilter{Month: month, GroupID: groupID, WithStudent: true})
}

// Record upserts the entry for (student, date). The group is copied from the
// student's current membership.
func (s *AttendanceService) Record(ctx context.Context, e domain.AttendanceEntry) (domain.AttendanceEntry, error) {
	if e.StudentID == "" || e.Date == "" || e.Status == "" || e.Month == "" || e.Country == "" {
		return domain.AttendanceEntry{}, domain.Invalid("student_id, date, status, month and country are required")
	}
	if !e.Status.Valid() {
		return domain.AttendanceEntry{}, domain.Invalid("status must be one of P, A, H")
	}
	if _, err := stats.MonthDays(e.Month); err != nil {
		return domain.AttendanceEntry{}, err
	}
	day, err := time.Parse(stats.DateLayout, e.Date)
	if err != nil {
		return domain.AttendanceEntry{}, domain.Invalid("date must look like %q", "2025-06-02")
	}
	if stats.MonthLabel(day) != e.Month {
		return domain.AttendanceEntry{}, domain.Invalid("date %s is not in %s", e.Date, e.Month)
	}
	e.Date = day.Format(stats.DateLayout)
	student, err := s.store.StudentByID(ctx, e.StudentID)
	if err != nil {
		return domain.AttendanceEntry{}, err
	}
	e.ID = s.newID()
	e.GroupID = student.GroupID
	e.Student = nil
	return s.store.UpsertAttendance(ctx, e)
}

func (s *AttendanceService) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) (domain.AttendanceEntry, error) {
	if !status.Valid() {
		return domain.AttendanceEntry{}, domain.Invalid("status must be one of P, A, H")
	}
	return s.store.UpdateAttendanceStatus(ctx, id, status)
}

// FillHolidays writes an H entry for every student and every day of month that
// has no entry of any status yet. Running it twice inserts nothing new.
func (s *AttendanceService) FillHolidays(ctx context.Context, month string) (int, error) {
	if month == "" {
		return 0, domain.Invalid("month is required")
	}
	days, err := stats.MonthDays(month)
	if err != nil {
		return 0, err
	}
	students, err := s.store.ListStudents(ctx, domain.StudentFilter{})
	if err != nil {
		return 0, err
	}
	existing, err := s.store.AttendanceDays(ctx, days[0], days[len(days)-1])
	if err != nil {
		return 0, err
	}

	gaps := stats.MissingDays(students, days, existing)
	entries := make([]domain.AttendanceEntry, 0, len(gaps))
	for _, g := range gaps {
		entries = append(entries, domain.AttendanceEntry{
			ID:        s.newID(),
			StudentID: g.StudentID,
			Date:      g.Date,
			Status:    domain.StatusHoliday,
			Month:     month,
			Country:   g.Country,
			GroupID:   g.GroupID,
		})
	}
	inserted, err := s.store.InsertIfAbsent(ctx, entries)
	if err != nil {
		return inserted, err
	}
	s.log.Info().Str("month", month).Int("students", len(students)).Int("inserted", inserted).Msg("holiday backfill")
	return inserted, nil
}
