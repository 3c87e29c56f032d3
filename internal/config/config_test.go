package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("database-url", "", "")
	flags.String("migrations-path", "", "")
	flags.Bool("debug", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MIGRATIONS_PATH", "")
	t.Setenv("BLOG_DATABASE_URL", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultMigrationsPath, cfg.MigrationsPath)
	assert.Equal(t, DefaultModelsPath, cfg.ModelsPath)
	assert.Equal(t, "internal/models/models_registry.go", cfg.RegistryFile)
	assert.False(t, cfg.Debug)
	assert.Error(t, cfg.RequireDatabase())
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://legacy")
	t.Setenv("MIGRATIONS_PATH", "db/migrations")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://legacy", cfg.DatabaseURL)
	assert.Equal(t, "db/migrations", cfg.MigrationsPath)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoad_PrefixedEnvOverridesLegacy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://legacy")
	t.Setenv("BLOG_DATABASE_URL", "postgres://prefixed")
	t.Setenv("BLOG_DEBUG", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://prefixed", cfg.DatabaseURL)
	assert.True(t, cfg.Debug)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("BLOG_DATABASE_URL", "postgres://env")
	t.Setenv("MIGRATIONS_PATH", "from-env")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--database-url", "sqlite://test.db", "--debug"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "sqlite://test.db", cfg.DatabaseURL)
	assert.True(t, cfg.Debug)
	// unset flags keep the lower layers
	assert.Equal(t, "from-env", cfg.MigrationsPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MIGRATIONS_PATH", "")
	t.Setenv("BLOG_DATABASE_URL", "")
	t.Setenv("BLOG_CONFIG", "")
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("blog-schema.yaml", []byte(`database_url: postgres://from-file
migrations_path: db/migrations
debug: true
`), 0644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-file", cfg.DatabaseURL)
	assert.Equal(t, "db/migrations", cfg.MigrationsPath)
	assert.True(t, cfg.Debug)

	t.Setenv("BLOG_DATABASE_URL", "postgres://env")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	t.Setenv("BLOG_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models_path: pkg/models\n"), 0644))

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--config", path}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "pkg/models", cfg.ModelsPath)
	assert.Equal(t, "pkg/models/models_registry.go", cfg.RegistryFile)

	flags = newFlags()
	require.NoError(t, flags.Parse([]string{"--config", filepath.Join(dir, "missing.yaml")}))
	_, err = Load(flags)
	assert.Error(t, err)
}
