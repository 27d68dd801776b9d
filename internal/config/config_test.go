package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "buildflow.db", filepath.Base(cfg.DB.Path))
	assert.Equal(t, "delay_model.json", filepath.Base(cfg.Model.Path))
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fair", cfg.Estimate.DefaultWeather)
	assert.Equal(t, 200, cfg.Train.Trees)
	assert.Equal(t, int64(42), cfg.Train.Seed)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BUILDFLOW_DB", "/tmp/x.db")
	t.Setenv("BUILDFLOW_MODEL_PATH", "/tmp/model.json")
	t.Setenv("BUILDFLOW_SERVER_PORT", "9090")
	t.Setenv("BUILDFLOW_VERBOSE", "true")
	t.Setenv("BUILDFLOW_ESTIMATE_CONCURRENCY", "8")
	t.Setenv("BUILDFLOW_DEFAULT_WEATHER", "severe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DB.Path)
	assert.Equal(t, "/tmp/model.json", cfg.Model.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, 8, cfg.Estimate.Concurrency)
	assert.Equal(t, "severe", cfg.Estimate.DefaultWeather)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildflow.yaml")
	yaml := "db:\n  path: /srv/buildflow.db\nserver:\n  host: 0.0.0.0\n  port: 7000\ntrain:\n  trees: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("BUILDFLOW_CONFIG", path)
	t.Setenv("BUILDFLOW_SERVER_PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/buildflow.db", cfg.DB.Path)
	assert.Equal(t, "0.0.0.0:7001", cfg.Server.Addr(), "env wins over the file")
	assert.Equal(t, 50, cfg.Train.Trees)
	assert.Equal(t, 4, cfg.Estimate.Concurrency, "unset keys keep their defaults")
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad port":         {"BUILDFLOW_SERVER_PORT": "eighty"},
		"port range":       {"BUILDFLOW_SERVER_PORT": "70000"},
		"bad verbose":      {"BUILDFLOW_VERBOSE": "loud"},
		"zero concurrency": {"BUILDFLOW_ESTIMATE_CONCURRENCY": "0"},
		"unknown weather":  {"BUILDFLOW_DEFAULT_WEATHER": "tropical"},
		"missing file":     {"BUILDFLOW_CONFIG": "/nonexistent/buildflow.yaml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
