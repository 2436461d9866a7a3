package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenworks/wren/internal/engine"
	"github.com/wrenworks/wren/internal/resolver"
	"github.com/wrenworks/wren/internal/scaffold"
)

// writeGenerator lays out one generator directory with its config and
// template files.
func writeGenerator(t *testing.T, root, typ, configYAML string, templates map[string]string) {
	t.Helper()
	dir := filepath.Join(root, typ)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generator.yml"), []byte(configYAML), 0644))
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

// chainFixture builds generators a -> b -> c writing into dest.
func chainFixture(t *testing.T, dest string) string {
	t.Helper()
	root := t.TempDir()

	writeGenerator(t, root, "a", `
name: A
files:
  - from: a.tmpl
    to: `+dest+`/a_{{.name}}.txt
dependencies:
  - type: b
`, map[string]string{"a.tmpl": "a {{.name}}\n"})

	writeGenerator(t, root, "b", `
name: B
files:
  - from: b.tmpl
    to: `+dest+`/b_{{.name}}.txt
dependencies:
  - type: c
`, map[string]string{"b.tmpl": "b {{.name}}\n"})

	writeGenerator(t, root, "c", `
name: C
files:
  - from: c.tmpl
    to: `+dest+`/c_{{.name}}.txt
`, map[string]string{"c.tmpl": "c {{.name}}\n"})

	return root
}

func TestScaffold_ChainAppliesLeafFirst(t *testing.T) {
	dest := t.TempDir()
	eng := engine.New(chainFixture(t, dest))

	outcomes, err := eng.Scaffold(context.Background(), engine.Request{Type: "a", Name: "user"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// Leaf-first: c, then b, then a.
	assert.Equal(t, filepath.Join(dest, "c_user.txt"), outcomes[0].Path)
	assert.Equal(t, filepath.Join(dest, "b_user.txt"), outcomes[1].Path)
	assert.Equal(t, filepath.Join(dest, "a_user.txt"), outcomes[2].Path)

	for _, o := range outcomes {
		assert.Equal(t, scaffold.ActionCreated, o.Action)
	}

	content, err := os.ReadFile(filepath.Join(dest, "a_user.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a user\n", string(content))
}

func TestScaffold_DiamondIsIdempotent(t *testing.T) {
	dest := t.TempDir()
	root := t.TempDir()

	writeGenerator(t, root, "a", `
files:
  - from: a.tmpl
    to: `+dest+`/a.txt
dependencies:
  - type: b
  - type: c
`, map[string]string{"a.tmpl": "a\n"})
	writeGenerator(t, root, "b", `
files:
  - from: b.tmpl
    to: `+dest+`/b.txt
dependencies:
  - type: d
`, map[string]string{"b.tmpl": "b\n"})
	writeGenerator(t, root, "c", `
files:
  - from: c.tmpl
    to: `+dest+`/c.txt
dependencies:
  - type: d
`, map[string]string{"c.tmpl": "c\n"})
	writeGenerator(t, root, "d", `
files:
  - from: d.tmpl
    to: `+dest+`/d.txt
`, map[string]string{"d.tmpl": "d\n"})

	eng := engine.New(root)
	req := engine.Request{Type: "a", Name: "user"}

	outcomes, err := eng.Scaffold(context.Background(), req)
	require.NoError(t, err)

	// d appears twice (once per parent edge); the second visit skips.
	require.Len(t, outcomes, 5)
	assert.Equal(t, scaffold.ActionCreated, outcomes[0].Action)
	assert.Equal(t, scaffold.ActionSkipped, outcomes[2].Action)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	first := len(entries)

	// Re-running the whole list twice produces the same final file set.
	outcomes, err = eng.Scaffold(context.Background(), req)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.Equal(t, scaffold.ActionSkipped, o.Action)
	}

	entries, err = os.ReadDir(dest)
	require.NoError(t, err)
	assert.Equal(t, first, len(entries))
}

func TestScaffold_RevertDeletesTree(t *testing.T) {
	dest := t.TempDir()
	eng := engine.New(chainFixture(t, dest))
	req := engine.Request{Type: "a", Name: "user"}

	_, err := eng.Scaffold(context.Background(), req)
	require.NoError(t, err)

	req.Revert = true
	outcomes, err := eng.Scaffold(context.Background(), req)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.Equal(t, scaffold.ActionDeleted, o.Action)
	}

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Reverting again surfaces missing targets without aborting the walk.
	outcomes, err = eng.Scaffold(context.Background(), req)
	require.Error(t, err)
	var missing *scaffold.MissingTargetError
	assert.True(t, errors.As(err, &missing))
	assert.Len(t, outcomes, 3)
}

func TestScaffold_UnknownType(t *testing.T) {
	eng := engine.New(chainFixture(t, t.TempDir()))

	_, err := eng.Scaffold(context.Background(), engine.Request{Type: "nope", Name: "user"})
	var unknown *resolver.UnknownGeneratorError
	require.True(t, errors.As(err, &unknown))
}

func TestScaffold_HelpersUnit(t *testing.T) {
	dest := t.TempDir()
	root := t.TempDir()

	dir := filepath.Join(root, "svc")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generator.yml"), []byte(`
files:
  - from: svc.tmpl
    to: `+dest+`/{{.name}}.txt
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers.yml"), []byte(`
helpers:
  - name: constName
    replace:
      - {from: "-", to: "_"}
    case: upper
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.tmpl"), []byte("{{constName .name}}\n"), 0644))

	eng := engine.New(root)
	_, err := eng.Scaffold(context.Background(), engine.Request{Type: "svc", Name: "my-service"})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "my-service.txt"))
	require.NoError(t, err)
	assert.Equal(t, "MY_SERVICE\n", string(content))
}

func TestScaffold_ExtraVars(t *testing.T) {
	dest := t.TempDir()
	root := t.TempDir()

	writeGenerator(t, root, "svc", `
files:
  - from: svc.tmpl
    to: `+dest+`/{{.name}}.txt
`, map[string]string{"svc.tmpl": "owner={{.owner}}\n"})

	eng := engine.New(root)
	_, err := eng.Scaffold(context.Background(), engine.Request{
		Type: "svc",
		Name: "api",
		Vars: map[string]string{"$owner": "platform"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "api.txt"))
	require.NoError(t, err)
	assert.Equal(t, "owner=platform\n", string(content))
}

func TestList_ReadOnly(t *testing.T) {
	root := chainFixture(t, t.TempDir())
	eng := engine.New(root)

	summaries, err := eng.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "a", summaries[0].Type)
	assert.Equal(t, "A", summaries[0].Name)
}

func TestDescribe_RootFirstDependenciesAfter(t *testing.T) {
	dest := t.TempDir()
	eng := engine.New(chainFixture(t, dest))

	descriptions, err := eng.Describe("a")
	require.NoError(t, err)
	require.Len(t, descriptions, 3)

	assert.Equal(t, "a", descriptions[0].Type)
	assert.Equal(t, "b", descriptions[1].Type)
	assert.Equal(t, "c", descriptions[2].Type)

	require.Len(t, descriptions[0].Files, 1)
	assert.Equal(t, "create", descriptions[0].Files[0].Method)
	assert.Contains(t, descriptions[0].Files[0].Path, "a_{{.name}}.txt")

	// Introspection must not touch the destination.
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
