package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

func DescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [table]",
		Short: "Describe the tables, constraints and relations declared by the models",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := schema.Load(models.All()...)
			if err != nil {
				return err
			}

			tables := sch.Tables
			if len(args) == 1 {
				table, ok := sch.Table(args[0])
				if !ok {
					return fmt.Errorf("unknown table %q", args[0])
				}
				tables = []*schema.Table{table}
			}

			out := cmd.OutOrStdout()
			for i, table := range tables {
				if i > 0 {
					fmt.Fprintln(out)
				}
				describeTable(out, table)
			}
			return nil
		},
	}
}

func describeTable(out io.Writer, table *schema.Table) {
	fmt.Fprintf(out, "Table %s\n", table.TableName())

	cols := newTable(out, "Column", "Type", "Nullable", "Default", "Key")
	for _, c := range table.TableColumns() {
		var key []string
		if c.PrimaryKey {
			key = append(key, "PK")
		}
		if c.Unique {
			key = append(key, "UNIQUE")
		}
		if c.References != nil {
			key = append(key, "-> "+c.References.Table+"."+c.References.Column)
		}
		cols.AppendRow([]interface{}{c.ColumnName(), c.SQLType, c.Nullable, c.DefaultSQL(), strings.Join(key, " ")})
	}
	cols.Render()

	if len(table.Indexes)+len(table.Uniques) > 0 {
		idx := newTable(out, "Index", "Columns", "Unique")
		for _, i := range table.Uniques {
			idx.AppendRow([]interface{}{i.Name, strings.Join(i.Columns, ", "), true})
		}
		for _, i := range table.Indexes {
			idx.AppendRow([]interface{}{i.Name, strings.Join(i.Columns, ", "), i.Unique})
		}
		idx.Render()
	}

	if len(table.ForeignKeys) > 0 {
		fks := newTable(out, "Foreign Key", "Columns", "References", "On Delete")
		for _, fk := range table.ForeignKeys {
			fks.AppendRow([]interface{}{
				fk.Name,
				strings.Join(fk.Columns, ", "),
				fk.ReferencedTable + "(" + strings.Join(fk.ReferencedColumns, ", ") + ")",
				fk.OnDelete,
			})
		}
		fks.Render()
	}

	if len(table.Relations) > 0 {
		rels := newTable(out, "Relation", "Target", "Kind", "Fields", "References")
		for _, r := range table.Relations {
			rels.AppendRow([]interface{}{r.Name, r.Target, r.Kind, strings.Join(r.Fields, ", "), strings.Join(r.References, ", ")})
		}
		rels.Render()
	}
}
