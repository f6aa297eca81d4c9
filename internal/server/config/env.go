package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays cfg with environment variables. Empty variables leave
// the current value untouched.
//
// Recognized variables:
//
//	ADDRESS             HTTP bind address
//	DATABASE_DSN        PostgreSQL DSN
//	JWT_SECRET_KEY      token signing secret
//	PAN_ENCRYPTION_KEY  field-cipher operator secret
//	TOKEN_VALIDITY      token lifetime (time.ParseDuration format)
//	PASSWORD_COST       bcrypt work factor
func parseEnv(cfg *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		cfg.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("PAN_ENCRYPTION_KEY"); v != "" {
		cfg.PANSecret = v
	}
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("PASSWORD_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PasswordCost = n
		}
	}
}
