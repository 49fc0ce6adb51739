package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Jan540/account-manager/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   auth (UDP) bind address
//	-a string   directory (TCP) bind address
//	-s string   token secret key
//	-t int      token validity, minutes (0 = no expiry)
//	-src string seed source: dir, s3 or postgres
//	-dir string seed directory
//	-d string   PostgreSQL DSN
//	-b string   S3 bucket name
//	-e string   S3 base endpoint
//	-q string   AMQP URL for event publishing
//
// Only the listed flags are parsed; flagx.FilterArgs drops everything else.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-a", "-s", "-t", "-src", "-dir", "-d", "-b", "-e", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.UDPAddr, "u", config.UDPAddr, "address and port of the auth endpoint")
	fs.StringVar(&config.TCPAddr, "a", config.TCPAddr, "address and port of the directory endpoint")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.SeedSource, "src", config.SeedSource, "seed source (dir, s3, postgres)")
	fs.StringVar(&config.SeedDir, "dir", config.SeedDir, "seed directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.AMQPURL, "q", config.AMQPURL, "AMQP URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute

	switch config.SeedSource {
	case SeedSourceDir, SeedSourceS3, SeedSourcePostgres:
	default:
		panic(fmt.Sprintf("unknown seed source %q", config.SeedSource))
	}
}
