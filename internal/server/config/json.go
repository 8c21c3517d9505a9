package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/weekend/internal/flagx"
	"github.com/dmitrijs2005/weekend/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept either
// a Go duration string ("24h") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	TokenValidityDuration   timex.Duration `json:"token_validity_duration"`
	BcryptCost              int            `json:"bcrypt_cost"`
	RevocationBackend       string         `json:"revocation_backend"`
	RedisAddr               string         `json:"redis_addr"`
	RedisPassword           string         `json:"redis_password"`
	RevocationSweepInterval timex.Duration `json:"revocation_sweep_interval"`
	LogFormat               string         `json:"log_format"`
	LogLevel                string         `json:"log_level"`
	LoginRatePerMinute      int            `json:"login_rate_per_minute"`
	LoginBurst              int            `json:"login_burst"`
	TrustedProxies          []string       `json:"trusted_proxies"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Keys missing from the file leave the current value alone.
// An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.RevocationBackend, c.RevocationBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RevocationSweepInterval.Duration > 0 {
		config.RevocationSweepInterval = c.RevocationSweepInterval.Duration
	}
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setInt(&config.LoginRatePerMinute, c.LoginRatePerMinute)
	setInt(&config.LoginBurst, c.LoginBurst)
	if len(c.TrustedProxies) > 0 {
		config.TrustedProxies = c.TrustedProxies
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
