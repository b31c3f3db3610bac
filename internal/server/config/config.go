package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DevVerifierSecret is the fallback shared secret. Anything running
// outside a developer laptop must override it.
const DevVerifierSecret = "dev-secret-change"

type Config struct {
	HTTPAddr    string   `env:"AUTOLOGG_HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN string   `env:"AUTOLOGG_DB_DSN" envDefault:"file:maintenance.db?cache=shared&mode=rwc"`
	CORSOrigins []string `env:"AUTOLOGG_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Identity-provider verification parameters. The token itself stays
	// opaque outside the identity package.
	VerifierSecret   string `env:"AUTOLOGG_VERIFIER_SECRET" envDefault:"dev-secret-change"`
	VerifierIssuer   string `env:"AUTOLOGG_VERIFIER_ISSUER"`
	VerifierAudience string `env:"AUTOLOGG_VERIFIER_AUDIENCE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// UsingDevSecret reports whether the verifier still runs on the built-in
// development secret, so the caller can log a warning.
func (c Config) UsingDevSecret() bool {
	return c.VerifierSecret == DevVerifierSecret
}
