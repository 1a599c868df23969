package cli

import (
	"fmt"

	"classroom-service/internal/domain"
	"github.com/spf13/cobra"
)

// NewBackfillCmd fills missing attendance days of a month with holidays.
func NewBackfillCmd(configPath *string) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "backfill-holidays",
		Short: "Insert H entries for days with no attendance mark",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			rt, err := build(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.deps.Attendance.FillHolidays(cmd.Context(), month)
			if err != nil {
				return err
			}
			log.Info().Str("month", month).Int("inserted", n).Msg("holiday backfill done")
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", `month label, e.g. "June 2025"`)
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

// NewTokenCmd signs an access token for local testing.
func NewTokenCmd(configPath *string) *cobra.Command {
	var sub, role string
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a signed access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth secret not configured")
			}
			r := domain.Role(role)
			if !r.Valid() {
				return fmt.Errorf("role must be teacher or student")
			}
			tok, err := newAuth(cfg).IssueJWT(sub, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "identity-provider user id")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleTeacher), "teacher or student")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
