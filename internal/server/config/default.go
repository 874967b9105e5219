// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultAddr        = "127.0.0.1:6379"
	DefaultTLSAddr     = "127.0.0.1:6380"
	DefaultMetricsAddr = "127.0.0.1:9121"

	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultRateLimit    = 1000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr: DefaultAddr,
			TLS: TLSConfig{
				Enabled: false,
				Addr:    DefaultTLSAddr,
			},
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
			RateLimit:    DefaultRateLimit,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
