package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "your-secret-key"
)

type Config struct {
	Env      string
	Port     string
	GinMode  string
	LogLevel string

	MongoURI      string
	MongoDatabase string
	RedisURL      string

	JWTSecret    string
	JWTExpiresIn time.Duration

	RateLimitTTL   time.Duration
	RateLimitLimit uint

	RequestTimeout time.Duration
	PaymentLockTTL time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	MailAPIURL    string
	MailAPIKey    string
	MailFromEmail string
	MailFromName  string
	MailWorkers   int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Env:                 get("APP_ENV", EnvDevelopment),
		Port:                get("PORT", "8080"),
		GinMode:             get("GIN_MODE", "debug"),
		LogLevel:            get("LOG_LEVEL", "info"),
		MongoURI:            get("DATABASE_URL", "mongodb://localhost:27017"),
		MongoDatabase:       get("DATABASE_NAME", "propt"),
		RedisURL:            get("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:           get("JWT_SECRET", defaultJWTSecret),
		CloudinaryCloudName: get("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    get("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: get("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    get("CLOUDINARY_FOLDER", "propt/verification"),
		MailAPIURL:          get("MAIL_API_URL", ""),
		MailAPIKey:          get("MAIL_API_KEY", ""),
		MailFromEmail:       get("MAIL_FROM_EMAIL", "no-reply@propt.io"),
		MailFromName:        get("MAIL_FROM_NAME", "Prop-T"),
		SMTPHost:            get("SMTP_HOST", ""),
		SMTPUsername:        get("SMTP_USERNAME", ""),
		SMTPPassword:        get("SMTP_PASSWORD", ""),
	}

	var err error
	if cfg.JWTExpiresIn, err = parseDuration(get("JWT_EXPIRES_IN", "24h")); err != nil {
		return nil, errors.Wrap(err, "JWT_EXPIRES_IN")
	}
	if cfg.RateLimitTTL, err = parseDuration(get("THROTTLE_TTL", "60s")); err != nil {
		return nil, errors.Wrap(err, "THROTTLE_TTL")
	}
	if cfg.RequestTimeout, err = parseDuration(get("REQUEST_TIMEOUT", "2m")); err != nil {
		return nil, errors.Wrap(err, "REQUEST_TIMEOUT")
	}
	if cfg.PaymentLockTTL, err = parseDuration(get("PAYMENT_LOCK_TTL", "30s")); err != nil {
		return nil, errors.Wrap(err, "PAYMENT_LOCK_TTL")
	}

	limit, err := strconv.ParseUint(get("THROTTLE_LIMIT", "100"), 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "THROTTLE_LIMIT")
	}
	cfg.RateLimitLimit = uint(limit)

	if cfg.MailWorkers, err = strconv.Atoi(get("MAIL_WORKERS", "4")); err != nil {
		return nil, errors.Wrap(err, "MAIL_WORKERS")
	}
	if cfg.SMTPPort, err = strconv.Atoi(get("SMTP_PORT", "2525")); err != nil {
		return nil, errors.Wrap(err, "SMTP_PORT")
	}

	for _, origin := range strings.Split(get("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment {
		if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set outside development")
		}
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.RateLimitLimit == 0 {
		return errors.New("THROTTLE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// parseDuration accepts Go durations and bare seconds ("60").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
