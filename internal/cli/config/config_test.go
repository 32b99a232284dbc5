package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Store.Dialect)
	assert.Equal(t, "msgpack", cfg.Store.Codec)
	assert.Equal(t, 5, cfg.Store.HeadSize)
	assert.Equal(t, "schema.yml", cfg.Generate.Schema)
	assert.Equal(t, "msgpack", cfg.Codec().Name())
	assert.Error(t, cfg.RequireStore())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := `
store:
  path: ./data
  dialect: bolt
  codec: json
  head_size: 3
generate:
  schema: graph.yml
  target: ./graph
  package: graph
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icegraph.yaml"), []byte(content), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, StoreConfig{Path: "./data", Dialect: "bolt", Codec: "json", HeadSize: 3}, cfg.Store)
	assert.Equal(t, "graph.yml", cfg.Generate.Schema)
	assert.Equal(t, "graph", cfg.Generate.Package)
	assert.NoError(t, cfg.RequireStore())
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  dialect: sqlite\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Dialect)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icegraph.yaml"), []byte("store:\n  path: from-file\n  dialect: bolt\n"), 0o644))
	t.Setenv("ICEGRAPH_STORE_PATH", "from-env")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.Path)
	assert.Equal(t, "bolt", cfg.Store.Dialect)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("dialect", "badger", "")
	require.NoError(t, cmd.Flags().Set("store", "from-flag"))

	cfg, err = Load("", cmd)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Store.Path)
	assert.Equal(t, "bolt", cfg.Store.Dialect, "an unset flag does not override the file")
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	for env, value := range map[string]string{
		"ICEGRAPH_STORE_DIALECT":    "rocksdb",
		"ICEGRAPH_STORE_CODEC":      "gob",
		"ICEGRAPH_STORE_HEAD_SIZE":  "0",
		"ICEGRAPH_GENERATE_WORKERS": "-1",
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}
