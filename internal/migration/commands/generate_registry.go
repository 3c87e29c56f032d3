package commands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func GenerateRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-registry",
		Short: "Generate model registry from GORM models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				cfg.RegistryFile = output
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Generating model registry...")

			execCmd := exec.Command("go", "run", "tools/gen_models_registry.go", cfg.ModelsPath)
			execCmd.Env = append(os.Environ(),
				"GORM_MODELS_PATH="+cfg.ModelsPath,
				"GORM_MODELS_REGISTRY_FILE="+cfg.RegistryFile,
			)
			execCmd.Stdout = cmd.OutOrStdout()
			execCmd.Stderr = cmd.ErrOrStderr()
			execCmd.Dir = "."

			if err := execCmd.Run(); err != nil {
				return fmt.Errorf("failed to generate model registry: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Model registry generated successfully!")
			return nil
		},
	}

	cmd.Flags().String("output", "", "Output file path (defaults to GORM_MODELS_REGISTRY_FILE env var)")

	return cmd
}
