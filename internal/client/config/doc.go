// Package config loads runtime configuration for the administrator CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   address:port of the auth endpoint
//	-a string   address:port of the directory endpoint
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "auth_addr": "127.0.0.1:4355",
//	  "directory_addr": "127.0.0.1:4356",
//	  "timeout": "5s"
//	}
package config
