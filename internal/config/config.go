// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all server and simulation settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the simulation tuning shared by the engine and the
// broadcast loop.
type SimConfig struct {
	TickRate       int    // Simulation ticks per second
	MapPath        string // PNG wall map; empty means generated arena
	GridWidth      int    // Generated arena width in cells
	GridHeight     int    // Generated arena height in cells
	Wanderers      int    // Autonomous actors spawned at startup
	BounceBudget   int    // Wall reflections per projectile
	MaxProjectiles int    // Hard cap on live projectiles
	Seed           int64  // RNG seed; 0 means time-based
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:       60,
		MapPath:        "",
		GridWidth:      81,
		GridHeight:     61,
		Wanderers:      300,
		BounceBudget:   3,
		MaxProjectiles: 64,
	}
}

// SimFromEnv returns simulation configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if p := os.Getenv("MAP_PATH"); p != "" {
		cfg.MapPath = p
	}
	if w := getEnvInt("GRID_WIDTH", 0); w > 0 {
		cfg.GridWidth = w
	}
	if h := getEnvInt("GRID_HEIGHT", 0); h > 0 {
		cfg.GridHeight = h
	}
	if n := getEnvInt("WANDERERS", -1); n >= 0 {
		cfg.Wanderers = n
	}
	if b := getEnvInt("BOUNCE_BUDGET", -1); b >= 0 {
		cfg.BounceBudget = b
	}
	if mp := getEnvInt("MAX_PROJECTILES", 0); mp > 0 {
		cfg.MaxProjectiles = mp
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	DebugPort     int     // Localhost-only metrics/pprof listener
	RateLimit     float64 // Requests per second per client IP
	RateBurst     int     // Burst allowance per client IP
	SnapshotEvery int     // Broadcast a snapshot every N ticks
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:          3000,
		DebugPort:     6060,
		RateLimit:     20,
		RateBurst:     40,
		SnapshotEvery: 2, // 30 snapshots/s at 60 TPS keeps websocket payloads sane
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if dp := getEnvInt("DEBUG_PORT", 0); dp > 0 {
		cfg.DebugPort = dp
	}
	if rl := getEnvFloat("RATE_LIMIT", 0); rl > 0 {
		cfg.RateLimit = rl
	}
	if rb := getEnvInt("RATE_BURST", 0); rb > 0 {
		cfg.RateBurst = rb
	}
	if se := getEnvInt("SNAPSHOT_EVERY", 0); se > 0 {
		cfg.SnapshotEvery = se
	}

	return cfg
}

// =============================================================================
// STORE CONFIGURATION
// =============================================================================

// StoreConfig holds run-history persistence settings.
type StoreConfig struct {
	Path    string // SQLite file; empty disables persistence
	Keep    int    // Recent runs returned by the history endpoint
	Enabled bool
}

// DefaultStore returns the default store configuration.
func DefaultStore() StoreConfig {
	return StoreConfig{
		Path:    "gridrush.db",
		Keep:    20,
		Enabled: true,
	}
}

// StoreFromEnv returns store configuration with environment variable
// overrides.
func StoreFromEnv() StoreConfig {
	cfg := DefaultStore()

	if p := os.Getenv("DB_PATH"); p != "" {
		cfg.Path = p
	}
	if k := getEnvInt("RUNS_KEEP", 0); k > 0 {
		cfg.Keep = k
	}
	if os.Getenv("DB_ENABLED") == "false" {
		cfg.Enabled = false
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Server ServerConfig
	Store  StoreConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Server: ServerFromEnv(),
		Store:  StoreFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
