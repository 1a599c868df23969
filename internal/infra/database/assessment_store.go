package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
)

func (s *Store) ListScores(ctx context.Context, f domain.ScoreFilter) ([]domain.AssessmentScore, error) {
	var rows []domain.AssessmentScore
	q := s.db.NewSelect().Model(&rows).Relation("Student").Order("sc.category ASC", "student.name ASC")
	if f.GroupID != "" {
		q = q.Where("student.group_id = ?", f.GroupID)
	}
	if f.Month != "" {
		q = q.Where("sc.month = ?", f.Month)
	}
	if f.Language != "" {
		q = q.Where("sc.language = ?", f.Language)
	}
	if f.Week != "" {
		q = q.Where("sc.week = ?", f.Week)
	}
	if f.StudentID != "" {
		q = q.Where("sc.student_id = ?", f.StudentID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return rows, nil
}

func (s *Store) ScoreByID(ctx context.Context, id string) (domain.AssessmentScore, error) {
	var row domain.AssessmentScore
	if err := s.db.NewSelect().Model(&row).Where("sc.id = ?", id).Scan(ctx); err != nil {
		return row, notFound(err, domain.ErrScoreNotFound)
	}
	return row, nil
}

// UpsertScore writes the score keyed by (student_id, category, language, month, week).
func (s *Store) UpsertScore(ctx context.Context, sc domain.AssessmentScore) (domain.AssessmentScore, error) {
	_, err := s.db.NewInsert().Model(&sc).
		On("CONFLICT (student_id, category, language, month, week) DO UPDATE").
		Set("raw_score = EXCLUDED.raw_score").
		Set("max_score = EXCLUDED.max_score").
		Set("week_start = EXCLUDED.week_start").
		Set("week_end = EXCLUDED.week_end").
		Set("group_id = EXCLUDED.group_id").
		Exec(ctx)
	if err != nil {
		return sc, fmt.Errorf("upsert score: %w", err)
	}
	var stored domain.AssessmentScore
	err = s.db.NewSelect().Model(&stored).
		Where("sc.student_id = ?", sc.StudentID).
		Where("sc.category = ?", sc.Category).
		Where("sc.language = ?", sc.Language).
		Where("sc.month = ?", sc.Month).
		Where("sc.week = ?", sc.Week).
		Scan(ctx)
	if err != nil {
		return sc, notFound(err, domain.ErrScoreNotFound)
	}
	return stored, nil
}

func (s *Store) UpdateScoreValues(ctx context.Context, id string, raw, max float64) error {
	res, err := s.db.NewUpdate().Model((*domain.AssessmentScore)(nil)).
		Set("raw_score = ?", raw).
		Set("max_score = ?", max).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	return mustAffect(res, domain.ErrScoreNotFound)
}
