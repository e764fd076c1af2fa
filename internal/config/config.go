// Package config provides centralized configuration management for the
// validation tooling. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail
// fast on misconfiguration. CLI flags override the environment.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Paths      PathsConfig
	Validation ValidationConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

// PathsConfig holds the directory layout.
type PathsConfig struct {
	// TemplatesDir is where the XML table templates live (default: config/templates)
	TemplatesDir string `env:"TEMPLATES_DIR" default:"config/templates"`

	// OutputDir is the root for generated reports (default: data/output)
	OutputDir string `env:"OUTPUT_DIR" default:"data/output"`
}

// ValidationConfig holds the engine's run settings.
type ValidationConfig struct {
	// AcceptThreshold is the minimum data quality score for a passing exit
	// code (default: 95)
	AcceptThreshold float64 `env:"ACCEPT_THRESHOLD" default:"95"`

	// Workers is the batch worker pool size (default: 4)
	Workers int `env:"BATCH_WORKERS" default:"4"`
}

// DatabaseConfig holds the optional staging database connection.
// When URL is empty, the load step is disabled.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string for the staging database.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`
}

// ServerConfig holds the report dashboard server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// MaxUploadSize is the maximum ad-hoc upload size in bytes (default: 100MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"104857600"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
