package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
gtfs:
  staticPath: /data/feed.zip
planner:
  maxTransfers: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/feed.zip", cfg.GTFS.StaticPath)
	assert.Equal(t, 5, cfg.Planner.MaxTransfers)

	// untouched fields keep their defaults
	assert.Equal(t, 1.0, cfg.Planner.MaxWalkingKM)
	assert.Equal(t, 5.0, cfg.Planner.WalkingSpeedKMH)
	assert.Equal(t, 0.5, cfg.Transfers.SearchRadiusKM)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ExplicitInvalidValueFails(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "zero walking speed",
			yaml: "planner:\n  walkingSpeedKmh: 0\n",
		},
		{
			name: "negative walking distance",
			yaml: "planner:\n  maxWalkingKm: -1\n",
		},
		{
			name: "zero port",
			yaml: "server:\n  port: 0\n",
		},
		{
			name: "negative transfer floor",
			yaml: "transfers:\n  minTransferSeconds: -10\n",
		},
		{
			name: "malformed url",
			yaml: "gtfs:\n  staticURL: not-a-url\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [not\n  a map\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 16181, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Planner.MaxAlternatives)
	assert.Equal(t, 120, cfg.Transfers.MinTransferSec)
	assert.Equal(t, 900, cfg.Transfers.MaxWaitingSec)
}
