package database

import (
	"context"
	"fmt"
	"time"

	"classroom-service/internal/domain"
)

func (s *Store) Report(ctx context.Context, studentID, month string) (domain.AIReport, error) {
	var r domain.AIReport
	err := s.db.NewSelect().Model(&r).
		Where("student_id = ?", studentID).
		Where("month = ?", month).
		Scan(ctx)
	if err != nil {
		return r, notFound(err, domain.ErrNotFound)
	}
	return r, nil
}

// SaveComment upserts the teacher comment on (student_id, month).
func (s *Store) SaveComment(ctx context.Context, r domain.AIReport) error {
	r.UpdatedAt = time.Now().UTC()
	_, err := s.db.NewInsert().Model(&r).
		On("CONFLICT (student_id, month) DO UPDATE").
		Set("teacher_comment = EXCLUDED.teacher_comment").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert report comment: %w", err)
	}
	return nil
}

// SaveContent upserts the report body and author on (student_id, month).
func (s *Store) SaveContent(ctx context.Context, r domain.AIReport) error {
	r.UpdatedAt = time.Now().UTC()
	_, err := s.db.NewInsert().Model(&r).
		On("CONFLICT (student_id, month) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("generated_by = EXCLUDED.generated_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert report content: %w", err)
	}
	return nil
}
