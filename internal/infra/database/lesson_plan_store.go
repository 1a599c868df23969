package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func (s *Store) ListLessonPlans(ctx context.Context, f domain.LessonPlanFilter) ([]domain.LessonPlan, error) {
	var rows []domain.LessonPlan
	q := s.db.NewSelect().Model(&rows).Order("week_start ASC", "category ASC", "content ASC")
	q = whereSet(q, "month", f.Month)
	q = whereSet(q, "language", f.Language)
	q = whereSet(q, "group_id", f.GroupID)
	q = whereSet(q, "week", f.Week)
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list lesson plans: %w", err)
	}
	return rows, nil
}

func whereSet(q *bun.SelectQuery, column, value string) *bun.SelectQuery {
	if value == "" {
		return q
	}
	return q.Where("? = ?", bun.Ident(column), value)
}

func (s *Store) CreateLessonPlan(ctx context.Context, p domain.LessonPlan) error {
	if _, err := s.db.NewInsert().Model(&p).Exec(ctx); err != nil {
		return fmt.Errorf("insert lesson plan: %w", err)
	}
	return nil
}

func (s *Store) UpdateLessonPlan(ctx context.Context, p domain.LessonPlan) error {
	res, err := s.db.NewUpdate().Model(&p).
		Column("month", "week", "week_start", "week_end", "category", "language", "content", "group_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lesson plan: %w", err)
	}
	return mustAffect(res, domain.ErrLessonPlanNotFound)
}

// DeleteLessonPlan removes file metadata first, then the plan.
func (s *Store) DeleteLessonPlan(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*domain.LessonPlanFile)(nil)).Where("lesson_plan_id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("delete lesson plan files: %w", err)
	}
	res, err := s.db.NewDelete().Model((*domain.LessonPlan)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete lesson plan: %w", err)
	}
	return mustAffect(res, domain.ErrLessonPlanNotFound)
}

func (s *Store) LessonPlanExists(ctx context.Context, id string) (bool, error) {
	return s.db.NewSelect().Model((*domain.LessonPlan)(nil)).Where("id = ?", id).Exists(ctx)
}

func (s *Store) LessonPlanFiles(ctx context.Context, planID string) ([]domain.LessonPlanFile, error) {
	var rows []domain.LessonPlanFile
	if err := s.db.NewSelect().Model(&rows).Where("lesson_plan_id = ?", planID).Order("file_name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list lesson plan files: %w", err)
	}
	return rows, nil
}

func (s *Store) AddLessonPlanFile(ctx context.Context, f domain.LessonPlanFile) error {
	if _, err := s.db.NewInsert().Model(&f).Exec(ctx); err != nil {
		return fmt.Errorf("insert lesson plan file: %w", err)
	}
	return nil
}

func (s *Store) DeleteLessonPlanFile(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*domain.LessonPlanFile)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete lesson plan file: %w", err)
	}
	return mustAffect(res, domain.ErrFileNotFound)
}
