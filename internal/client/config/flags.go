package config

import (
	"flag"
	"os"
	"time"

	"github.com/Jan540/account-manager/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   address and port of the auth endpoint
//	-a string   address and port of the directory endpoint
//	-t int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthAddr, "u", cfg.AuthAddr, "address and port of the auth endpoint")
	fs.StringVar(&cfg.DirectoryAddr, "a", cfg.DirectoryAddr, "address and port of the directory endpoint")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
}
