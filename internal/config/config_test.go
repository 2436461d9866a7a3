package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/render"
)

// writeGenerator creates a generator directory with a generator.yml.
func writeGenerator(t *testing.T, root, typ, configYAML string) string {
	t.Helper()
	dir := filepath.Join(root, typ)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(configYAML), 0644))
	return dir
}

func TestLoadAll_MissingRoot(t *testing.T) {
	_, err := config.LoadAll(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigNotFound))
}

func TestLoadAll_Normalization(t *testing.T) {
	root := t.TempDir()
	dir := writeGenerator(t, root, "service", `
name: Service
description: Generates a service
files:
  - from: service.tmpl
    to: app/services/{{.name}}.go
  - from: test.tmpl
    to: "{{.name}}_test.go"
    method: overwrite
dependencies:
  - type: model
    parentPath: app/models
`)

	defs, err := config.LoadAll(root)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "service", def.Type)
	assert.Equal(t, "Service", def.Name)
	assert.Equal(t, dir, def.Dir)
	assert.Empty(t, def.HelpersPath)

	require.Len(t, def.Files, 2)

	first := def.Files[0]
	assert.Equal(t, filepath.Join(dir, "service.tmpl"), first.From)
	assert.Equal(t, "{{.name}}.go", first.Base)
	assert.Equal(t, "app/services", first.ParentPath)
	assert.Equal(t, config.MethodCreate, first.Method)
	assert.True(t, first.MethodDefaulted)

	second := def.Files[1]
	assert.Equal(t, "{{.name}}_test.go", second.Base)
	assert.Empty(t, second.ParentPath, "bare base name inherits the context parentPath")
	assert.Equal(t, config.MethodOverwrite, second.Method)
	assert.False(t, second.MethodDefaulted)

	require.Len(t, def.Dependencies, 1)
	assert.Equal(t, "model", def.Dependencies[0].Type)
	assert.Equal(t, "app/models", def.Dependencies[0].ParentPath)
}

func TestLoadAll_TypesOrderedByDirectory(t *testing.T) {
	root := t.TempDir()
	writeGenerator(t, root, "zeta", "files: []\n")
	writeGenerator(t, root, "alpha", "files: []\n")

	defs, err := config.LoadAll(root)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Type)
	assert.Equal(t, "zeta", defs[1].Type)
}

func TestLoadAll_MissingConfigIsError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0755))

	_, err := config.LoadAll(root)
	require.Error(t, err)

	var invalid *config.InvalidGeneratorError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "broken", invalid.Type)
}

func TestLoadAll_UnparsableConfigIsError(t *testing.T) {
	root := t.TempDir()
	writeGenerator(t, root, "broken", "files: [not: valid: yaml\n")

	_, err := config.LoadAll(root)
	require.Error(t, err)

	var invalid *config.InvalidGeneratorError
	require.True(t, errors.As(err, &invalid))
}

func TestLoadAll_UnknownMethod(t *testing.T) {
	root := t.TempDir()
	writeGenerator(t, root, "bad", `
files:
  - from: a.tmpl
    to: a.go
    method: replace
`)

	_, err := config.LoadAll(root)
	require.Error(t, err)

	var invalid *config.InvalidGeneratorError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Error(), "replace")
}

func TestLoadAll_DetectsHelpersUnit(t *testing.T) {
	root := t.TempDir()
	dir := writeGenerator(t, root, "model", "files: []\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.HelpersFileName), []byte("helpers: []\n"), 0644))

	defs, err := config.LoadAll(root)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, filepath.Join(dir, config.HelpersFileName), defs[0].HelpersPath)
}

func TestLoadHelpers_Register(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helpers.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
helpers:
  - name: kebab
    replace:
      - {from: "_", to: "-"}
    case: lower
  - name: envName
    prefix: "APP_"
    case: upper
`), 0644))

	helpers, err := config.LoadHelpers(path)
	require.NoError(t, err)

	r := render.New()
	require.NoError(t, helpers.Register(r))

	got, err := r.Render("test", `{{kebab .name}}`, map[string]any{"name": "My_Module"})
	require.NoError(t, err)
	assert.Equal(t, "my-module", got)

	got, err = r.Render("test2", `{{envName .name}}`, map[string]any{"name": "port"})
	require.NoError(t, err)
	assert.Equal(t, "APP_PORT", got)
}

func TestLoadHelpers_UnknownCaseOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helpers.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
helpers:
  - name: shout
    case: scream
`), 0644))

	_, err := config.LoadHelpers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scream")
}

func TestLoadSettings_Defaults(t *testing.T) {
	// Run in an empty directory so no wren.yml is found.
	t.Chdir(t.TempDir())

	cfg, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "generators", cfg.GeneratorsRoot)
	assert.Equal(t, "migrations", cfg.MigrationsType)
	assert.Equal(t, 5, cfg.MigrationStep)
	assert.Equal(t, 6, cfg.MigrationWidth)
}

func TestLoadSettings_FromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wren.yml"), []byte(`
module: example.com/app
generators:
  root: recipes
`), 0644))
	t.Chdir(dir)

	cfg, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "recipes", cfg.GeneratorsRoot)
	assert.Equal(t, "example.com/app", cfg.ModuleName)
}

func TestLoadSettings_EnvOverridesNestedKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WREN_GENERATORS_ROOT", "blueprints")
	t.Setenv("WREN_GENERATORS_MIGRATION_STEP", "10")

	cfg, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "blueprints", cfg.GeneratorsRoot)
	assert.Equal(t, 10, cfg.MigrationStep)
}
