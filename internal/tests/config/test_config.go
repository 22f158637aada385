// Package config builds configurations for in-process end-to-end tests.
package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/you/healthrecords/internal/config"
)

const (
	AdminEmail    = "admin@hospital.test"
	AdminPassword = "admin-pass"
)

// NewTestConfig returns a config backed by in-memory SQLite. When enforce is
// set it also starts a miniredis instance for sessions and enables JWT and
// casbin authorization.
func NewTestConfig(t *testing.T, enforce bool) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Port:          "0",
		GinMode:       "test",
		CORSOrigins:   []string{"*"},
		DSN:           "sqlite::memory:",
		JWTIssuer:     "healthrecords-test",
		AccessTTL:     15 * time.Minute,
		LogLevel:      "disabled",
		AdminEmail:    AdminEmail,
		AdminPassword: AdminPassword,
		AdminName:     "Root Admin",
	}

	if enforce {
		mr := miniredis.RunT(t)
		cfg.RedisAddr = mr.Addr()
		cfg.JWTSecret = "e2e-secret"
		cfg.EnforceAuth = true
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}
