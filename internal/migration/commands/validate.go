package commands

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate migration files and the model registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			loader, err := getMigrationLoader(cfg)
			if err != nil {
				return err
			}
			files, err := loader.LoadFiles()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if _, err := schema.Load(models.All()...); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if missing := unregisteredModels(models.Registry{}.GetModels()); len(missing) > 0 {
				return fmt.Errorf("validation failed: model registry is missing %s, run generate-registry", strings.Join(missing, ", "))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "All migrations are valid (%d files)\n", len(files))
			return nil
		},
	}
}

// unregisteredModels returns the models of the schema that the generated
// registry does not list.
func unregisteredModels(registry map[string]interface{}) []string {
	registered := make(map[reflect.Type]bool, len(registry))
	for _, m := range registry {
		registered[reflect.Indirect(reflect.ValueOf(m)).Type()] = true
	}

	var missing []string
	for _, m := range models.All() {
		t := reflect.Indirect(reflect.ValueOf(m)).Type()
		if !registered[t] {
			missing = append(missing, t.Name())
		}
	}
	sort.Strings(missing)
	return missing
}
