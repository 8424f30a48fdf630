package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// JWTConfig holds configuration for session token signing and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	// Ephemeral is set when the secret was generated at startup; tokens do not
	// survive a restart.
	Ephemeral bool
}

// NewJWTConfig derives the session token configuration from cfg. When no
// secret is configured a random one is generated for the process lifetime.
func NewJWTConfig(cfg Config) (*JWTConfig, error) {
	jc := &JWTConfig{
		Secret:          cfg.JWTSecret,
		ExpirationHours: cfg.SessionTTLHours,
	}
	if jc.ExpirationHours == 0 {
		jc.ExpirationHours = 24
	}

	if jc.Secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		jc.Secret = hex.EncodeToString(buf)
		jc.Ephemeral = true
	}

	if err := jc.normalize(); err != nil {
		return nil, err
	}
	return jc, nil
}

// TTL returns the token lifetime.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
