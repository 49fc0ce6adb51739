package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:4355", c.AuthAddr)
	assert.Equal(t, "127.0.0.1:4356", c.DirectoryAddr)
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:4355", cfg.AuthAddr)
	assert.Equal(t, "127.0.0.1:4356", cfg.DirectoryAddr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
