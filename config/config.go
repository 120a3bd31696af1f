package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment at startup.
type Config struct {
	Port string

	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	AdminEmail        string
	AdminPasswordHash string
	AdminEmails       []string

	FirebaseCredentialsJSON string
	FirebaseProjectID       string

	RedisURL string
	CartTTL  time.Duration

	UploadBackend string // "local" or "s3"
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string

	StripeSecretKey     string
	StripeWebhookSecret string

	AllowedOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    env("PORT", "8080"),
		DBDriver:                strings.ToLower(env("DB_DRIVER", "postgres")),
		DatabaseURL:             env("DATABASE_URL", ""),
		DBHost:                  env("DB_HOST", "localhost"),
		DBPort:                  env("DB_PORT", "5432"),
		DBUser:                  env("DB_USER", ""),
		DBPassword:              env("DB_PASSWORD", ""),
		DBName:                  env("DB_NAME", ""),
		SQLitePath:              env("SQLITE_PATH", "adega.db"),
		JWTSecret:               env("JWT_SECRET", ""),
		SessionTTL:              durationEnv("SESSION_TTL", 12*time.Hour),
		CookieSecure:            boolEnv("COOKIE_SECURE", true),
		AdminEmail:              strings.ToLower(env("ADMIN_EMAIL", "")),
		AdminPasswordHash:       env("ADMIN_PASSWORD_HASH", ""),
		AdminEmails:             listEnv("ADMIN_EMAILS"),
		FirebaseCredentialsJSON: env("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseProjectID:       env("FIREBASE_PROJECT_ID", ""),
		RedisURL:                env("REDIS_URL", ""),
		CartTTL:                 durationEnv("CART_TTL", 72*time.Hour),
		UploadBackend:           strings.ToLower(env("UPLOAD_BACKEND", "local")),
		UploadDir:               env("UPLOAD_DIR", "uploads"),
		PublicBaseURL:           strings.TrimRight(env("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		S3Bucket:                env("S3_BUCKET", ""),
		StripeSecretKey:         env("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:     env("STRIPE_WEBHOOK_SECRET", ""),
		AllowedOrigins:          listEnv("ALLOWED_ORIGINS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" && (c.DBUser == "" || c.DBName == "") {
			errs = append(errs, errors.New("DATABASE_URL or DB_USER/DB_NAME must be set"))
		}
	case "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must be set when UPLOAD_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.UploadBackend))
	}
	if c.FirebaseCredentialsJSON != "" && c.FirebaseProjectID == "" {
		errs = append(errs, errors.New("FIREBASE_PROJECT_ID must be set with FIREBASE_CREDENTIALS_JSON"))
	}
	return errors.Join(errs...)
}

// PostgresDSN builds the connection string used when DATABASE_URL is empty.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func boolEnv(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
