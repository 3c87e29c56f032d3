package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}
			m, err := newMigrator(cfg, db)
			if err != nil {
				return err
			}

			pending, err := m.Pending()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, mig := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mig.Name, mig.Version)
				}
				return nil
			}

			applied, err := m.Up()
			for _, mig := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s (%s)\n", mig.Name, mig.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}
