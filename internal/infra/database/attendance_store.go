package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
)

func (s *Store) ListAttendance(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceEntry, error) {
	var rows []domain.AttendanceEntry
	q := s.db.NewSelect().Model(&rows).Order("ae.date ASC")
	if f.WithStudent {
		q = q.Relation("Student")
	}
	// The entry keeps the group it was recorded in, even after the student moves.
	if f.GroupID != "" {
		q = q.Where("ae.group_id = ?", f.GroupID)
	}
	if f.Month != "" {
		q = q.Where("ae.month = ?", f.Month)
	}
	if f.StudentID != "" {
		q = q.Where("ae.student_id = ?", f.StudentID)
	}
	if f.Date != "" {
		q = q.Where("ae.date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("ae.date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("ae.date <= ?", f.To)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// UpsertAttendance writes the entry keyed by (student_id, date).
func (s *Store) UpsertAttendance(ctx context.Context, e domain.AttendanceEntry) (domain.AttendanceEntry, error) {
	_, err := s.db.NewInsert().Model(&e).
		On("CONFLICT (student_id, date) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("month = EXCLUDED.month").
		Set("country = EXCLUDED.country").
		Set("group_id = EXCLUDED.group_id").
		Exec(ctx)
	if err != nil {
		return e, fmt.Errorf("upsert attendance: %w", err)
	}
	var stored domain.AttendanceEntry
	err = s.db.NewSelect().Model(&stored).
		Where("ae.student_id = ?", e.StudentID).
		Where("ae.date = ?", e.Date).
		Scan(ctx)
	if err != nil {
		return e, notFound(err, domain.ErrAttendanceNotFound)
	}
	return stored, nil
}

func (s *Store) UpdateAttendanceStatus(ctx context.Context, id string, status domain.AttendanceStatus) (domain.AttendanceEntry, error) {
	res, err := s.db.NewUpdate().Model((*domain.AttendanceEntry)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.AttendanceEntry{}, fmt.Errorf("update attendance: %w", err)
	}
	if err := mustAffect(res, domain.ErrAttendanceNotFound); err != nil {
		return domain.AttendanceEntry{}, err
	}
	var stored domain.AttendanceEntry
	if err := s.db.NewSelect().Model(&stored).Where("ae.id = ?", id).Scan(ctx); err != nil {
		return stored, notFound(err, domain.ErrAttendanceNotFound)
	}
	return stored, nil
}

// AttendanceDays returns, per student, the dates in [from, to] that already
// have an entry of any status.
func (s *Store) AttendanceDays(ctx context.Context, from, to string) (map[string]map[string]bool, error) {
	var rows []domain.AttendanceEntry
	err := s.db.NewSelect().Model(&rows).
		Column("student_id", "date").
		Where("date >= ?", from).
		Where("date <= ?", to).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance days: %w", err)
	}
	out := map[string]map[string]bool{}
	for _, r := range rows {
		if out[r.StudentID] == nil {
			out[r.StudentID] = map[string]bool{}
		}
		out[r.StudentID][r.Date] = true
	}
	return out, nil
}

const holidayBatch = 500

// InsertIfAbsent inserts entries, skipping any (student_id, date) that already
// exists, and returns how many rows were written.
func (s *Store) InsertIfAbsent(ctx context.Context, entries []domain.AttendanceEntry) (int, error) {
	inserted := 0
	for start := 0; start < len(entries); start += holidayBatch {
		end := start + holidayBatch
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]
		res, err := s.db.NewInsert().Model(&batch).
			On("CONFLICT (student_id, date) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return inserted, fmt.Errorf("insert attendance batch: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(n)
	}
	return inserted, nil
}
