// Package migrations registers the schema migrations applied by the migrate command and on start.
package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func createTables(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func dropTables(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createIndex(ctx context.Context, db *bun.DB, model interface{}, name string, columns ...string) error {
	_, err := db.NewCreateIndex().Model(model).Index(name).Column(columns...).IfNotExists().Exec(ctx)
	return err
}
