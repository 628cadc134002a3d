package config

import (
	"fmt"
	"strings"
)

// ValidateConfig enforces the settings each environment cannot run
// without. Development and test tolerate the built-in defaults;
// production refuses to start on placeholder credentials.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port must be set")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errors = append(errors, "database host, port and name must be set")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT secret must be set")
	}

	if IsProduction() {
		if cfg.JWTSecret == "your-secret-key" {
			errors = append(errors, "JWT_SECRET must be set explicitly in production")
		}
		if cfg.DBPassword == "postgres" {
			errors = append(errors, "DB_PASSWORD must be set explicitly in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be disabled in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
