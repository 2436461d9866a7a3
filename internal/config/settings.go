package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds project-level wren configuration from wren.yml. All fields
// have defaults, so a missing config file is not an error.
type Settings struct {
	GeneratorsRoot string // directory holding the generator definitions
	ModuleName     string // default module name for the template context
	MigrationsType string // generator type that receives sequence numbering
	MigrationStep  int    // increment between migration sequence numbers
	MigrationWidth int    // zero-padded width of the sequence prefix
}

// LoadSettings reads wren.yml from the working directory, falling back to
// defaults when the file is absent. Environment variables prefixed WREN_
// override file values.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("wren")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("WREN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("generators.root", "generators")
	v.SetDefault("generators.migrations_type", "migrations")
	v.SetDefault("generators.migration_step", 5)
	v.SetDefault("generators.migration_width", 6)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read wren.yml: %w", err)
		}
	}

	cfg := &Settings{
		GeneratorsRoot: v.GetString("generators.root"),
		ModuleName:     v.GetString("module"),
		MigrationsType: v.GetString("generators.migrations_type"),
		MigrationStep:  v.GetInt("generators.migration_step"),
		MigrationWidth: v.GetInt("generators.migration_width"),
	}

	if cfg.MigrationStep <= 0 {
		return nil, fmt.Errorf("migration step must be positive, got %d", cfg.MigrationStep)
	}
	if cfg.MigrationWidth <= 0 {
		return nil, fmt.Errorf("migration width must be positive, got %d", cfg.MigrationWidth)
	}

	return cfg, nil
}
