package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/meta-node-blockchain/om-generals/pkg/fault"
	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/storage"
)

// TraceConfig chooses where trace events go.
type TraceConfig struct {
	Console     bool    `json:"console" toml:"console"`
	RatePerSec  float64 `json:"rate_per_sec" toml:"rate_per_sec"`
	Dir         string  `json:"dir" toml:"dir"`
	CleanBefore bool    `json:"clean_before" toml:"clean_before"`
}

// StorageConfig selects the archive backend for mission outcomes.
type StorageConfig struct {
	Type string `json:"type" toml:"type"`
	Path string `json:"path" toml:"path"`
}

// MissionConfig is the full description of one run.
type MissionConfig struct {
	Generals int           `json:"generals" toml:"generals"`
	Faults   int           `json:"faults" toml:"faults"`
	Order    bool          `json:"order" toml:"order"`
	Traitors int           `json:"traitors" toml:"traitors"`
	Behavior string        `json:"behavior" toml:"behavior"`
	Seed     uint64        `json:"seed" toml:"seed"`
	LogLevel int           `json:"log_level" toml:"log_level"`
	Trace    TraceConfig   `json:"trace" toml:"trace"`
	Storage  StorageConfig `json:"storage" toml:"storage"`
}

// Default returns five generals tolerating one traitor, the commander
// ordering an attack, and an in-memory archive.
func Default() *MissionConfig {
	return &MissionConfig{
		Generals: 5,
		Faults:   1,
		Order:    true,
		Traitors: 0,
		Behavior: fault.BehaviorLiar,
		Seed:     1,
		LogLevel: logger.FLAG_INFO,
		Trace: TraceConfig{
			RatePerSec: 200,
		},
		Storage: StorageConfig{
			Type: storage.STORAGE_TYPE_MEMORY_DB,
		},
	}
}

// LoadConfigFromFile reads a config on top of Default. Files ending in
// .toml are decoded as TOML, anything else as JSON.
func LoadConfigFromFile(filename string) (*MissionConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := Default()
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("could not decode toml: %w", err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal json: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields this package owns. The n > 3m requirement
// is enforced by the mission itself.
func (c *MissionConfig) Validate() error {
	if c.Traitors < 0 || c.Traitors > c.Faults {
		return fmt.Errorf("traitors must be between 0 and the fault bound %d, got %d", c.Faults, c.Traitors)
	}
	if c.Traitors > c.Generals {
		return fmt.Errorf("cannot have %d traitors among %d generals", c.Traitors, c.Generals)
	}
	if !fault.Known(c.Behavior) {
		return fmt.Errorf("unknown behavior %q", c.Behavior)
	}
	switch c.Storage.Type {
	case storage.STORAGE_TYPE_MEMORY_DB, storage.STORAGE_TYPE_LEVEL_DB, storage.STORAGE_TYPE_BADGER_DB:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Storage.Type != storage.STORAGE_TYPE_MEMORY_DB && c.Storage.Path == "" {
		return fmt.Errorf("storage type %q needs a path", c.Storage.Type)
	}
	return nil
}
