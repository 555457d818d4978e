package config

import (
	"os"
	"time"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Crypto        CryptoConfig
	Stripe        StripeConfig
	NinjaVan      NinjaVanConfig
	Cloudinary    CloudinaryConfig
	Notifications NotificationsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// CryptoConfig feeds the AES-GCM helper used for KYC reviewer notes.
// DataKey is base64 and must decode to 32 bytes.
type CryptoConfig struct {
	DataKey string
}

type StripeConfig struct {
	APIKey            string
	BaseURL           string
	RedirectAllowlist string // comma-separated URL prefixes, enforced in production
}

type NinjaVanConfig struct {
	BaseURL  string
	APIToken string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type NotificationsConfig struct {
	SendgridAPIKey string
	SendgridFrom   string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	SMTPFrom       string
	TwilioSID      string
	TwilioToken    string
	TwilioFrom     string
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "bayanihan:bayanihan@tcp(localhost:3306)/bayanihan?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_SECRET", "change-me-in-production"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 720 * time.Hour,
			Issuer:        "bayanihan",
		},
		Crypto: CryptoConfig{
			DataKey: env("APP_DATA_KEY", ""),
		},
		Stripe: StripeConfig{
			APIKey:            env("STRIPE_API_KEY", ""),
			BaseURL:           env("STRIPE_BASE_URL", "https://api.stripe.com"),
			RedirectAllowlist: env("STRIPE_REDIRECT_ALLOWLIST", ""),
		},
		NinjaVan: NinjaVanConfig{
			BaseURL:  env("NINJAVAN_BASE_URL", ""),
			APIToken: env("NINJAVAN_API_TOKEN", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Notifications: NotificationsConfig{
			SendgridAPIKey: env("SENDGRID_API_KEY", ""),
			SendgridFrom:   env("SENDGRID_FROM", "no-reply@bayanihan.ph"),
			SMTPHost:       env("SMTP_HOST", ""),
			SMTPPort:       env("SMTP_PORT", "587"),
			SMTPUser:       env("SMTP_USER", ""),
			SMTPPassword:   env("SMTP_PASSWORD", ""),
			SMTPFrom:       env("SMTP_FROM", "no-reply@bayanihan.ph"),
			TwilioSID:      env("TWILIO_ACCOUNT_SID", ""),
			TwilioToken:    env("TWILIO_AUTH_TOKEN", ""),
			TwilioFrom:     env("TWILIO_FROM", ""),
		},
	}
}
