package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the macrolog service.
type Config struct {
	Addr                 string        `env:"ADDR,default=:8080"`
	DBDSN                string        `env:"DB_DSN,required"`
	JWTSigningKey        string        `env:"JWT_SIGNING_KEY,required"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL,default=72h"`
	AppBaseURL           string        `env:"APP_BASE_URL,default=http://localhost:8080"`
	MailFrom             string        `env:"MAIL_FROM,required"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL,default=24h"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=24h"`
	OTLPEndpoint         string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AllowedOrigins       []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
