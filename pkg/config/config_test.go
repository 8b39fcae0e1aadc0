package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Generals)
	assert.Equal(t, 1, cfg.Faults)
	assert.True(t, cfg.Order)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.json")
	body := `{"generals": 7, "faults": 2, "order": false, "traitors": 2,
		"behavior": "alternator", "storage": {"type": "level", "path": "data/missions"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Generals)
	assert.Equal(t, 2, cfg.Faults)
	assert.False(t, cfg.Order)
	assert.Equal(t, "alternator", cfg.Behavior)
	assert.Equal(t, "level", cfg.Storage.Type)
	// untouched fields keep their defaults
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.toml")
	body := `generals = 10
faults = 3
order = false
behavior = "random"
seed = 42

[trace]
console = true
rate_per_sec = 50.0
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Generals)
	assert.Equal(t, 3, cfg.Faults)
	assert.False(t, cfg.Order)
	assert.Equal(t, "random", cfg.Behavior)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Trace.Console)
	assert.Equal(t, 50.0, cfg.Trace.RatePerSec)
	assert.Equal(t, "memory", cfg.Storage.Type)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("generals = ["), 0o644))
	_, err = LoadConfigFromFile(bad)
	assert.Error(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadConfigFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *MissionConfig){
		"too many traitors": func(c *MissionConfig) { c.Traitors = 2 },
		"negative traitors": func(c *MissionConfig) { c.Traitors = -1 },
		"unknown behavior":  func(c *MissionConfig) { c.Behavior = "sleepy" },
		"unknown storage":   func(c *MissionConfig) { c.Storage.Type = "redis" },
		"missing path":      func(c *MissionConfig) { c.Storage.Type = "badger" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	// n <= 3m is left to the mission
	cfg := Default()
	cfg.Generals = 3
	assert.NoError(t, cfg.Validate())
}
