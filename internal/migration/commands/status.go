package commands

import (
	"time"

	"github.com/spf13/cobra"
)

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}
			m, err := newMigrator(cfg, db)
			if err != nil {
				return err
			}

			statuses, err := m.Status()
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), "Version", "Name", "Status", "Applied At")
			for _, s := range statuses {
				status, appliedAt := "Pending", ""
				if s.Applied {
					status = "Applied"
					appliedAt = s.AppliedAt.Format(time.RFC3339)
				}
				if s.Missing {
					status = "Missing file"
				}
				t.AppendRow([]interface{}{s.Version, s.Name, status, appliedAt})
			}
			t.Render()
			return nil
		},
	}
}
