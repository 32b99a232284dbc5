package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/engine"
	"github.com/syssam/icegraph/internal/testgraph"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed creates a bolt store holding two people and one company.
func seed(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")
	eng, err := engine.Open(path, engine.WithDialect(dialect.Bolt), engine.WithRegistry(testgraph.Registry),
		engine.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	require.NoError(t, eng.AddNode(ctx, testgraph.NewPerson(nil, "ada", "Ada")))
	require.NoError(t, eng.AddNode(ctx, testgraph.NewPerson(nil, "bob", "Bob")))
	require.NoError(t, eng.AddNode(ctx, testgraph.NewCompany(nil, "acme", "Acme")))
	require.NoError(t, eng.Close())
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "icegraph version dev\n", out)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.yml")
	require.NoError(t, os.WriteFile(schema, []byte(`
nodes:
  - name: Person
    fields:
      - {name: name, type: string}
  - name: Company
edges:
  - name: EmploysAt
    fields:
      - {name: since, type: int}
    connections:
      - {name: Employment, from: Person, to: Company}
`), 0o644))
	target := filepath.Join(dir, "graph")

	out, err := run(t, "generate", "--schema", schema, "--target", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 2 node kinds and 1 edge kinds")
	for _, name := range []string{"person.go", "company.go", "employsat.go", "kinds.go"} {
		assert.FileExists(t, filepath.Join(target, name))
	}
	data, err := os.ReadFile(filepath.Join(target, "kinds.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package graph")
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "generate", "--schema", filepath.Join(dir, "missing.yml"), "--target", dir)
	assert.Error(t, err)

	schema := filepath.Join(dir, "schema.yml")
	require.NoError(t, os.WriteFile(schema, []byte("nodes:\n  - name: default\n"), 0o644))
	_, err = run(t, "generate", "--schema", schema, "--target", filepath.Join(dir, "graph"))
	assert.ErrorContains(t, err, "invalid kind name")
}

func TestFamilies(t *testing.T) {
	path := seed(t)
	out, err := run(t, "families", "--store", path, "--dialect", "bolt")
	require.NoError(t, err)
	assert.Contains(t, out, "Person\n")
	assert.Contains(t, out, "EmploysAt\n")
	assert.Contains(t, out, "default (reserved)\n")
}

func TestCount(t *testing.T) {
	path := seed(t)
	out, err := run(t, "count", "--store", path, "--dialect", "bolt")
	require.NoError(t, err)
	assert.Regexp(t, `Person\s+2\n`, out)
	assert.Regexp(t, `Company\s+1\n`, out)
	assert.Regexp(t, `total\s+3\n`, out)

	out, err = run(t, "count", "Company", "--store", path, "--dialect", "bolt")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+1\n`, out)

	_, err = run(t, "count", "Missing", "--store", path, "--dialect", "bolt")
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	path := seed(t)
	out, err := run(t, "head", "--store", path, "--dialect", "bolt", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Person:\n  Person:ada  ")
	assert.NotContains(t, out, "Person:bob")
	assert.Regexp(t, `Person:ada  [0-9a-f]+(\.\.\.)? \(\d+ bytes\)`, out)
}

func TestDestroy(t *testing.T) {
	path := seed(t)
	_, err := run(t, "destroy", "--store", path, "--dialect", "bolt")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, "destroy", "--yes", "--store", path, "--dialect", "bolt")
	require.NoError(t, err)
	assert.Contains(t, out, "Destroyed 3 records")

	out, err = run(t, "families", "--store", path, "--dialect", "bolt")
	require.NoError(t, err)
	assert.Equal(t, "default (reserved)\n", out)
}

func TestStoreRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "families")
	assert.ErrorContains(t, err, "no store configured")

	_, err = run(t, "families", "--store", filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)

	t.Setenv("ICEGRAPH_STORE_DIALECT", "bolt")
	path := seed(t)
	t.Setenv("ICEGRAPH_STORE_PATH", path)
	out, err := run(t, "count")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+3\n`, out)
}
