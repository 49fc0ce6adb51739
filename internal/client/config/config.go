package config

import "time"

// Config holds runtime settings for the administrator CLI.
//
// Fields:
//   - AuthAddr: host:port of the auth (UDP) endpoint.
//   - DirectoryAddr: host:port of the directory (TCP) endpoint.
//   - Timeout: deadline applied to every request.
type Config struct {
	AuthAddr      string
	DirectoryAddr string
	Timeout       time.Duration
}

// LoadDefaults points the client at a service on the local host.
func (c *Config) LoadDefaults() {
	c.AuthAddr = "127.0.0.1:4355"
	c.DirectoryAddr = "127.0.0.1:4356"
	c.Timeout = 5 * time.Second
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
