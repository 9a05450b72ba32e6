package telephony

import (
	"log/slog"
	"time"
)

// Config holds telephony provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	AccountSID string
	AuthToken  string

	// FromNumber is the E.164 number outbound calls originate from.
	FromNumber string

	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Option is a functional option for configuring the telephony client.
type Option func(*Config)

// WithCredentials sets the account SID and auth token.
func WithCredentials(accountSID, authToken string) Option {
	return func(c *Config) {
		c.AccountSID = accountSID
		c.AuthToken = authToken
	}
}

// WithFromNumber sets the outbound caller number.
func WithFromNumber(number string) Option {
	return func(c *Config) {
		c.FromNumber = number
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.AccountSID == "" {
		return ErrNoAccountSID
	}
	if c.AuthToken == "" {
		return ErrNoAuthToken
	}
	if c.FromNumber == "" {
		return ErrNoPhoneNumber
	}
	return nil
}
