package migrations

import (
	"context"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func init() {
	models := []interface{}{
		(*domain.AttendanceEntry)(nil),
		(*domain.AssessmentScore)(nil),
		(*domain.LessonPlan)(nil),
		(*domain.LessonPlanFile)(nil),
		(*domain.AIReport)(nil),
	}
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := createTables(ctx, db, models...); err != nil {
				return err
			}
			if err := createIndex(ctx, db, (*domain.AttendanceEntry)(nil), "ix_attendance_group_month", "group_id", "month"); err != nil {
				return err
			}
			if err := createIndex(ctx, db, (*domain.AssessmentScore)(nil), "ix_scores_month_language", "month", "language"); err != nil {
				return err
			}
			return createIndex(ctx, db, (*domain.LessonPlan)(nil), "ix_lesson_plans_group_month", "group_id", "month")
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropTables(ctx, db, models...)
		},
	)
}
