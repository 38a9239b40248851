// Package config handles configuration for the station binary,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for a station (guard desk, resident
// session or admin session).
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP gateway.
//   - RedisAddr: Redis instance carrying the change-notification channel.
//   - DatabasePath: path of the local SQLite file (offline queue, session,
//     preferences). Must be writable and survives restarts.
//   - OnlineCheckInterval: how often the station probes server reachability.
//   - GuardID: identifier stamped on guard submissions; empty means the
//     single-guard sentinel.
type Config struct {
	ServerEndpointAddr  string
	RedisAddr           string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	GuardID             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RedisAddr = "127.0.0.1:6379"
	c.DatabasePath = "station.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.GuardID = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
