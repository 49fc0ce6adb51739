package config

import (
	"encoding/json"
	"os"

	"github.com/Jan540/account-manager/internal/flagx"
	"github.com/Jan540/account-manager/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both "1m"
// strings and integer nanoseconds.
type JsonConfig struct {
	UDPAddr               string         `json:"udp_addr"`
	TCPAddr               string         `json:"tcp_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	SeedSource            string         `json:"seed_source"`
	SeedDir               string         `json:"seed_dir"`
	DatabaseDSN           string         `json:"database_dsn"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	AMQPURL               string         `json:"amqp_url"`
	AMQPExchange          string         `json:"amqp_exchange"`
	EventBufferSize       int            `json:"event_buffer_size"`
}

// parseJson overlays values from the file named by -c or -config. Keys
// missing from the file keep their current value. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigPath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.UDPAddr, c.UDPAddr)
	setString(&config.TCPAddr, c.TCPAddr)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.SeedSource, c.SeedSource)
	setString(&config.SeedDir, c.SeedDir)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.AMQPURL, c.AMQPURL)
	setString(&config.AMQPExchange, c.AMQPExchange)
	if c.EventBufferSize != 0 {
		config.EventBufferSize = c.EventBufferSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
