package cli

import (
	"context"

	"classroom-service/internal/config"
	"classroom-service/internal/infra/database"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// NewMigrateCmd applies (or rolls back) database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if rollback {
				group, err := database.Rollback(cmd.Context(), db)
				if err != nil {
					return err
				}
				log.Info().Str("group", group.String()).Msg("migrations rolled back")
				return nil
			}
			group, err := database.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info().Str("group", group.String()).Msg("migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}

func openDatabase(ctx context.Context, cfg config.Config) (*bun.DB, error) {
	return database.Open(ctx, database.Driver(cfg.Database.Driver), cfg.Database.URL)
}
