package migrations

import (
	"context"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func init() {
	models := []interface{}{
		(*domain.Group)(nil),
		(*domain.Teacher)(nil),
		(*domain.GroupTeacher)(nil),
		(*domain.Student)(nil),
	}
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := createTables(ctx, db, models...); err != nil {
				return err
			}
			if err := createIndex(ctx, db, (*domain.Student)(nil), "ix_students_group", "group_id"); err != nil {
				return err
			}
			return createIndex(ctx, db, (*domain.Student)(nil), "ix_students_clerk_user", "clerk_user_id")
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropTables(ctx, db, models...)
		},
	)
}
