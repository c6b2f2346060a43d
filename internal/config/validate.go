package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the application specific sections.
func (c *Config) Validate() error {
	v := validator.New()

	sections := []struct {
		name string
		val  any
	}{
		{"services", c.Services},
		{"client", c.Client},
		{"tokenStore", c.TokenStore},
		{"tokenRefresher", c.TokenRefresher},
	}
	for _, s := range sections {
		if err := v.Struct(s.val); err != nil {
			return fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	if c.TokenStore.Type == TokenStoreFile && c.TokenStore.Path == "" {
		return fmt.Errorf("invalid tokenStore config: path is required for the %s store", TokenStoreFile)
	}

	return nil
}
