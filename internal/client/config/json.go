package config

import (
	"encoding/json"
	"os"

	"github.com/Jan540/account-manager/internal/flagx"
	"github.com/Jan540/account-manager/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// may be a string like "3s" or integer nanoseconds.
type JsonConfig struct {
	AuthAddr      string         `json:"auth_addr"`
	DirectoryAddr string         `json:"directory_addr"`
	Timeout       timex.Duration `json:"timeout"`
}

// parseJson overlays cfg with the keys present in the file named by -c or
// -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.AuthAddr != "" {
		cfg.AuthAddr = jc.AuthAddr
	}
	if jc.DirectoryAddr != "" {
		cfg.DirectoryAddr = jc.DirectoryAddr
	}
	if jc.Timeout.Duration != 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
}
