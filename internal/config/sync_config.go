package config

import (
	"encoding/json"
	"os"
	"time"
)

// SyncConfig holds synchronization configuration
type SyncConfig struct {
	// ============ BASIC SETTINGS ============
	Enabled bool `json:"enabled"`

	// ============ BATCHING ============
	BatchSize      int `json:"batch_size"`       // records per SaveBatch call
	BatchDelaySecs int `json:"batch_delay_secs"` // pause between batches

	// ============ CIRCUIT BREAKER ============
	FailureThreshold int `json:"failure_threshold"` // consecutive failed passes before sync is disabled

	// ============ SCHEDULING ============
	AutoSyncEnabled  bool `json:"auto_sync_enabled"`
	AutoSyncInterval int  `json:"auto_sync_interval"` // seconds
	SyncOnStartup    bool `json:"sync_on_startup"`
}

// BatchDelay returns the inter-batch pause as a duration.
func (c *SyncConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelaySecs) * time.Second
}

// LoadSyncConfig loads sync configuration from environment or file
func LoadSyncConfig() *SyncConfig {
	// Try to load from file first
	if configPath := os.Getenv("SYNC_CONFIG_PATH"); configPath != "" {
		if cfg, err := loadSyncConfigFromFile(configPath); err == nil {
			return cfg
		}
	}

	// Otherwise use defaults
	return getDefaultSyncConfig()
}

// loadSyncConfigFromFile loads sync config from JSON file
func loadSyncConfigFromFile(path string) (*SyncConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg SyncConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getDefaultSyncConfig returns default sync configuration
func getDefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		Enabled: getBoolEnv("SYNC_ENABLED", true),

		BatchSize:      getIntEnv("SYNC_BATCH_SIZE", 5),
		BatchDelaySecs: getIntEnv("SYNC_BATCH_DELAY", 2),

		FailureThreshold: getIntEnv("SYNC_FAILURE_THRESHOLD", 3),

		AutoSyncEnabled:  getBoolEnv("SYNC_AUTO_ENABLED", false),
		AutoSyncInterval: getIntEnv("SYNC_AUTO_INTERVAL", 300),
		SyncOnStartup:    getBoolEnv("SYNC_ON_STARTUP", false),
	}
}
