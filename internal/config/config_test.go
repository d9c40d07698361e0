package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tqlsh.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.ShowInfo)
	assert.False(t, cfg.StrictTransactions)
	assert.False(t, cfg.GlobalInference)
	assert.True(t, cfg.CreateDatabase)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "dot", cfg.Graph)
	assert.Empty(t, cfg.History)
	assert.Nil(t, cfg.Connection)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
show_info:           false
strict_transactions: true
graph:               "json"
database:            "social"
connection: {
	address: "testdata/social.yaml"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.ShowInfo)
	assert.True(t, cfg.StrictTransactions)
	assert.Equal(t, "json", cfg.Graph)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "social", cfg.Database)

	require.NotNil(t, cfg.Connection)
	addr := cfg.Connection.Address()
	assert.Equal(t, "fixture", addr.Kind)
	assert.Equal(t, "testdata/social.yaml", addr.Address)
	assert.Equal(t, "admin", addr.Username)
	assert.False(t, addr.TLS)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `colour: "red"`},
		{"bad enum", `output: "yaml"`},
		{"wrong type", `show_info: "yes"`},
		{"syntax", `show_info: `},
		{"empty address", `connection: address: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.src)
			_, err := Load(path)
			require.Error(t, err)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, path, ce.Path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestHistoryPath(t *testing.T) {
	cfg := &Config{History: "/tmp/h.db"}
	p, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.db", p)

	t.Setenv("XDG_CACHE_HOME", "/var/cache/test")
	t.Setenv("HOME", "/home/test")
	p, err = Default().HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "history.db", filepath.Base(p))
	assert.Equal(t, "tqlsh", filepath.Base(filepath.Dir(p)))
}
