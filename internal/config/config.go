package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const appID = "crm"

// Config is read from the environment, optionally seeded from a .env file.
// Every field can be set either as CRM_<NAME> or as the bare name in envconfig tags.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	Latency     time.Duration `envconfig:"LATENCY" default:"800ms"`
	FailureRate float64       `envconfig:"FAILURE_RATE" default:"0"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"ligue-crm"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`

	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`

	MailHost     string `envconfig:"MAIL_HOST"`
	MailPort     int    `envconfig:"MAIL_PORT" default:"587"`
	MailUser     string `envconfig:"MAIL_USER"`
	MailPassword string `envconfig:"MAIL_PASS"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@ligue-crm.local"`

	SnapshotPath     string        `envconfig:"SNAPSHOT_PATH"`
	SnapshotInterval time.Duration `envconfig:"SNAPSHOT_INTERVAL" default:"1m"`

	SeedData bool `envconfig:"SEED_DATA" default:"true"`
}

// Load reads envFile when it exists and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	var c Config
	if err := envconfig.Process(appID, &c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Latency < 0 {
		return errors.New("LATENCY must not be negative")
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return errors.New("FAILURE_RATE must be between 0 and 1")
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive")
	}
	return nil
}

func (c *Config) MailEnabled() bool { return c.MailHost != "" }

func (c *Config) SnapshotEnabled() bool { return c.SnapshotPath != "" }
