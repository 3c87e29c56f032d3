package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"blog-schema/internal/migration"
)

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup(cmd)
			if err != nil {
				return err
			}

			records, err := migration.NewMigrator(db).History()
			if err != nil {
				return fmt.Errorf("failed to get migration history: %w", err)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations have been applied yet.")
				return nil
			}

			t := newTable(cmd.OutOrStdout(), "Version", "Name", "Applied At")
			for i := len(records) - 1; i >= 0; i-- {
				r := records[i]
				t.AppendRow([]interface{}{r.Version, r.Name, r.AppliedAt.Format(time.RFC3339)})
			}
			t.Render()
			return nil
		},
	}
}
