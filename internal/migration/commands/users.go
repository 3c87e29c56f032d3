package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"blog-schema/internal/queries"
)

func RenameUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-user [id] [name]",
		Short: "Rename a user and print the stored name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			_, db, err := setup(cmd)
			if err != nil {
				return err
			}

			renamed, err := queries.RenameUser(cmd.Context(), db, id, args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), renamed)
		},
	}
}

func ListUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List users with their posts and post categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderBy, _ := cmd.Flags().GetString("order-by")
			desc, _ := cmd.Flags().GetBool("desc")

			_, db, err := setup(cmd)
			if err != nil {
				return err
			}

			users, err := queries.ListUsersWithPosts(cmd.Context(), db, queries.ListOptions{OrderBy: orderBy, Desc: desc})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), users)
		},
	}

	cmd.Flags().String("order-by", "", "Column to sort users by, default id: "+strings.Join(queries.OrderColumns, ", "))
	cmd.Flags().Bool("desc", false, "Sort in descending order")

	return cmd
}
