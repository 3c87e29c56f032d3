package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/queries"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample users, posts and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup(cmd)
			if err != nil {
				return err
			}

			res, err := queries.Seed(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d posts, %d categories and %d links\n",
				len(res.Users), len(res.Posts), len(res.Categories), res.Links)
			return nil
		},
	}
}
