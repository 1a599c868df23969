package app_test

import (
	"context"
	"testing"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/rs/zerolog"
)

func TestFillHolidaysIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1", Country: "UK"})
	seedStudent(t, store, domain.Student{ID: "s2", Name: "Noah", GroupID: "g1", Country: "UK"})
	svc := app.NewAttendanceService(store, zerolog.Nop())

	if _, err := svc.Record(ctx, domain.AttendanceEntry{StudentID: "s1", Date: "2025-02-03", Status: domain.StatusPresent, Month: "February 2025", Country: "UK"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	first, err := svc.FillHolidays(ctx, "February 2025")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	// 28 days for two students, minus the one recorded day.
	if first != 55 {
		t.Fatalf("expected 55 inserted, got %d", first)
	}
	second, err := svc.FillHolidays(ctx, "February 2025")
	if err != nil {
		t.Fatalf("refill: %v", err)
	}
	if second != 0 {
		t.Fatalf("second run must insert nothing, got %d", second)
	}

	rows, _ := svc.List(ctx, "February 2025", "g1")
	if len(rows) != 56 {
		t.Fatalf("expected 56 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.StudentID == "s1" && r.Date == "2025-02-03" && r.Status != domain.StatusPresent {
			t.Fatalf("backfill overwrote a real entry: %+v", r)
		}
	}
}

func TestRecordAttendanceValidates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedStudent(t, store, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1"})
	svc := app.NewAttendanceService(store, zerolog.Nop())

	base := domain.AttendanceEntry{StudentID: "s1", Date: "2025-06-02", Status: "X", Month: "June 2025", Country: "UK"}
	if _, err := svc.Record(ctx, base); !domain.IsValidation(err) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	base.Status = domain.StatusAbsent
	base.Country = ""
	if _, err := svc.Record(ctx, base); !domain.IsValidation(err) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	base.Country = "UK"

	for _, date := range []string{"2025-6-2", "not-a-date", "2025-07-01"} {
		bad := base
		bad.Date = date
		if _, err := svc.Record(ctx, bad); !domain.IsValidation(err) {
			t.Fatalf("date %q: expected validation error, got %v", date, err)
		}
	}

	stored, err := svc.Record(ctx, base)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stored.GroupID != "g1" {
		t.Fatalf("group should come from the student, got %q", stored.GroupID)
	}
	updated, err := svc.UpdateStatus(ctx, stored.ID, domain.StatusPresent)
	if err != nil || updated.Status != domain.StatusPresent {
		t.Fatalf("update status: %+v %v", updated, err)
	}
	if _, err := svc.UpdateStatus(ctx, stored.ID, "Z"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
