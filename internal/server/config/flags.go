package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/weekend/internal/flagx"
)

var flagNames = []string{"a", "G", "d", "t", "k", "r", "R", "P", "i", "f", "l", "L", "B", "x", "u", "p", "b", "g", "e"}

// parseFlags populates Config fields from command-line flags. Flags that are
// not given leave the current value alone.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-G string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-t int      token validity, minutes
//	-k int      bcrypt cost
//	-r string   revocation backend: memory or redis
//	-R string   redis address
//	-P string   redis password
//	-i int      revocation sweep interval, seconds
//	-f string   log format: json, text or zerolog
//	-l string   log level
//	-L int      login attempts per minute per client
//	-B int      login burst per client
//	-x string   comma-separated trusted proxy addresses or CIDRs
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "G", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")

	fs.StringVar(&config.RevocationBackend, "r", config.RevocationBackend, "revocation backend (memory|redis)")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "P", config.RedisPassword, "redis password")
	sweepInterval := fs.Int("i", int(config.RevocationSweepInterval.Seconds()), "revocation sweep interval (in seconds)")

	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text|zerolog)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.IntVar(&config.LoginRatePerMinute, "L", config.LoginRatePerMinute, "login attempts per minute per client")
	fs.IntVar(&config.LoginBurst, "B", config.LoginBurst, "login burst per client")
	trustedProxies := fs.String("x", "", "trusted proxies (comma-separated)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "i":
			config.RevocationSweepInterval = time.Duration(*sweepInterval) * time.Second
		case "x":
			config.TrustedProxies = splitList(*trustedProxies)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
