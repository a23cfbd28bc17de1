package config

import (
	"net"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Interface to bind
	Host string `mapstructure:"host" yaml:"host"`

	// Listening port
	Port int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`

	// Timeouts for reading a request and writing a response
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"required"`

	// Deadline applied to each request's context
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required"`

	// Largest accepted JSON body
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"min=1"`

	// PID file location; empty disables single-instance enforcement
	PIDFile string `mapstructure:"pid_file" yaml:"pid_file"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" yaml:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" yaml:"burst" validate:"min=1"`
}

// Address returns host:port for the listener
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
