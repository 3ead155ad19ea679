package config

import (
	"fmt"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT builds the token configuration. The secret is required.
func (c *Config) JWT() (*JWTConfig, error) {
	jwtCfg := &JWTConfig{
		Secret:          c.Auth.JWTSecret,
		ExpirationHours: c.Auth.JWTExpirationHours,
	}
	if err := jwtCfg.normalize(); err != nil {
		return nil, err
	}
	return jwtCfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
