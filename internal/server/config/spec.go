// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for voltkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the client-facing listener.
type ServerSection struct {
	// Addr is the plaintext listen address.
	Addr string `koanf:"addr"`

	// TLS configures an optional additional TLS listener.
	TLS TLSConfig `koanf:"tls"`

	// ReadTimeout bounds reading a single command once its first byte
	// arrived. It does not apply to connections suspended in BLPOP.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing a reply.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout bounds the gap between commands on a connection.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is the maximum commands per second per client IP.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// TLSConfig configures the TLS listener.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// MetricsSection configures the Prometheus metrics endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
