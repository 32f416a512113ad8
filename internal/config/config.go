// Package config holds the flat configuration surface shared by the
// server and client CLIs. Neither binary loads a config file or reads
// the environment — flags only, matching the teacher's flag-only posture.
package config

import (
	"time"

	"github.com/richard-senior/mcp-runtime/pkg/auth"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// Config is the full set of knobs either binary exposes as flags.
type Config struct {
	Transport string // "stdio" or "sse"

	Host string
	Port int

	Scheme       string // "http" or "https", used when building the advertised endpoint URL
	SSEPath      string
	MessagesPath string
	HealthPath   string

	APIKey          string
	APIKeyValidator auth.Validator

	RequestTimeout           time.Duration
	EndpointHandshakeTimeout time.Duration
	SessionIdleTimeout       time.Duration

	AllowedOrigins []string

	ProtocolVersion string
	ServerName      string
	ServerVersion   string
	Instructions    string
}

// DefaultConfig returns a Config populated with every timeout and path
// default this runtime uses when a flag is left unset.
func DefaultConfig() Config {
	return Config{
		Transport: "stdio",

		Host: "localhost",
		Port: 8080,

		Scheme:       "http",
		SSEPath:      "/sse",
		MessagesPath: "/messages",
		HealthPath:   "/healthz",

		RequestTimeout:           60 * time.Second,
		EndpointHandshakeTimeout: 10 * time.Second,
		SessionIdleTimeout:       30 * time.Minute,

		AllowedOrigins: []string{"*"},

		ProtocolVersion: protocol.ProtocolVersion,
		ServerName:      "mcp-runtime",
		ServerVersion:   "0.1.0",
	}
}

// Validator resolves the configured auth.Validator: the explicit
// APIKeyValidator if one was set, otherwise a static comparison against
// APIKey, or nil if neither is configured (no auth required).
func (c Config) Validator() auth.Validator {
	if c.APIKeyValidator != nil {
		return c.APIKeyValidator
	}
	if c.APIKey != "" {
		return auth.NewStaticKeyValidator(c.APIKey)
	}
	return nil
}
