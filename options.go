package mdict

import (
	"io"
	"log/slog"
)

// openConfig collects the settings functional Options apply to Open.
type openConfig struct {
	passcode        []byte
	logger          *slog.Logger
	skipPrefixIndex bool
}

func defaultOpenConfig() *openConfig {
	return &openConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures OpenWithOptions.
type Option func(*openConfig)

// WithPasscode supplies the passcode required to open a dictionary whose
// header declares record-block encryption. Only its presence is checked;
// record blocks are decrypted with the fixed mdxDecrypt key derivation.
func WithPasscode(passcode []byte) Option {
	return func(c *openConfig) {
		c.passcode = passcode
	}
}

// WithLogger routes the handle's diagnostic logging through logger
// instead of discarding it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *openConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithoutPrefixIndex skips building the adaptive radix tree that
// accelerates Prefix queries, falling back to a linear scan. Useful for
// short-lived handles where the index's construction cost outweighs the
// Prefix calls it would save.
func WithoutPrefixIndex() Option {
	return func(c *openConfig) {
		c.skipPrefixIndex = true
	}
}
