package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/rs/zerolog"
)

func TestStudentSummaryExcludesHolidays(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1", Country: "UK"})
	att := app.NewAttendanceService(store, zerolog.Nop())
	for i, status := range []domain.AttendanceStatus{"P", "P", "A", "H", "H"} {
		date := time.Date(2025, time.June, 2+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		if _, err := att.Record(ctx, domain.AttendanceEntry{StudentID: "s1", Date: date, Status: status, Month: "June 2025", Country: "UK"}); err != nil {
			t.Fatalf("record %s: %v", date, err)
		}
	}
	scores := app.NewAssessmentService(store)
	for _, in := range []app.ScoreInput{
		{StudentID: "s1", Category: "Letters", RawScore: 8, MaxScore: 10, Language: "English", Month: "June 2025"},
		{StudentID: "s1", Category: "Numbers", RawScore: 4, MaxScore: 10, Language: "English", Month: "June 2025"},
	} {
		if _, err := scores.Record(ctx, in); err != nil {
			t.Fatalf("record score: %v", err)
		}
	}

	sum, err := app.NewStatsService(store).StudentSummary(ctx, "s1", "June 2025")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.AttendancePercent != 67 || sum.AssessmentPercent != 60 {
		t.Fatalf("expected 67%% attendance and 60%% assessment, got %+v", sum)
	}
}

func TestMonthlyCategories(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1"})
	seedStudent(t, store, domain.Student{ID: "s2", Name: "Noah", GroupID: "g1"})
	scores := app.NewAssessmentService(store)
	for _, in := range []app.ScoreInput{
		{StudentID: "s1", Category: "A", RawScore: 8, MaxScore: 10, Language: "English", Month: "June 2025"},
		{StudentID: "s2", Category: "A", RawScore: 2, MaxScore: 10, Language: "English", Month: "June 2025"},
	} {
		if _, err := scores.Record(ctx, in); err != nil {
			t.Fatalf("record score: %v", err)
		}
	}

	rows, err := app.NewStatsService(store).MonthlyCategories(ctx, "g1", "June 2025")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	raw, _ := json.Marshal(rows)
	if string(raw) != `[{"category":"A","English":50}]` {
		t.Fatalf("unexpected categories %s", raw)
	}
}

func TestWeeklyAndDailyAttendance(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1"})
	seedStudent(t, store, domain.Student{ID: "s2", Name: "Noah", GroupID: "g1"})
	att := app.NewAttendanceService(store, zerolog.Nop())
	record := func(student, date string, status domain.AttendanceStatus) {
		t.Helper()
		if _, err := att.Record(ctx, domain.AttendanceEntry{StudentID: student, Date: date, Status: status, Month: "June 2025", Country: "UK"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	// 2025-06-02 is a Monday.
	record("s1", "2025-06-02", domain.StatusPresent)
	record("s2", "2025-06-02", domain.StatusPresent)
	record("s1", "2025-06-04", domain.StatusPresent)
	record("s2", "2025-06-04", domain.StatusAbsent)
	record("s1", "2025-06-07", domain.StatusPresent)

	svc := app.NewStatsService(store)
	week, err := svc.Weekly(ctx, "g1", "2025-06-02")
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	want := map[string]int{"Mon": 2, "Tue": 0, "Wed": 1, "Thu": 0, "Fri": 0}
	if len(week) != 5 {
		t.Fatalf("expected Mon-Fri buckets, got %+v", week)
	}
	for _, d := range week {
		if want[d.Day] != d.Present {
			t.Fatalf("%s: expected %d, got %d", d.Day, want[d.Day], d.Present)
		}
	}

	day, err := svc.Daily(ctx, "g1", "2025-06-04")
	if err != nil || day.Present != 1 || day.Absent != 1 || day.Holiday != 0 {
		t.Fatalf("unexpected daily %+v (%v)", day, err)
	}

	perStudent, err := svc.StudentPercentages(ctx, "g1", "June 2025")
	if err != nil {
		t.Fatalf("percentages: %v", err)
	}
	if len(perStudent) != 2 || perStudent[0].Name != "Mia" || perStudent[0].Percent != 100 || perStudent[1].Percent != 50 {
		t.Fatalf("unexpected percentages %+v", perStudent)
	}

	if _, err := svc.Weekly(ctx, "g1", "June"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad week_start, got %v", err)
	}
}

func TestAssessmentRecordEnforcesBounds(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1"})
	svc := app.NewAssessmentService(store)

	in := app.ScoreInput{StudentName: "Mia", Category: "Shapes", RawScore: 11, MaxScore: 10, Language: "English", Month: "June 2025"}
	if _, err := svc.Record(ctx, in); !domain.IsValidation(err) {
		t.Fatalf("expected raw > max to be rejected, got %v", err)
	}
	in.RawScore = 7
	first, err := svc.Record(ctx, in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	in.RawScore = 9
	second, err := svc.Record(ctx, in)
	if err != nil {
		t.Fatalf("re-record: %v", err)
	}
	if first.ID != second.ID || second.RawScore != 9 {
		t.Fatalf("expected upsert on natural key, got %+v then %+v", first, second)
	}
	if _, err := svc.Update(ctx, second.ID, 12, 10); !domain.IsValidation(err) {
		t.Fatalf("expected update bounds check, got %v", err)
	}
	updated, err := svc.Update(ctx, second.ID, 5, 5)
	if err != nil || updated.MaxScore != 5 {
		t.Fatalf("update: %+v %v", updated, err)
	}
}
