package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CART_TTL", "not-a-duration")
	t.Setenv("ADMIN_EMAILS", " Boss@Adega.com, ,ops@adega.com ")
	t.Setenv("PUBLIC_BASE_URL", "https://adega.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 72*time.Hour, cfg.CartTTL)
	assert.Equal(t, []string{"boss@adega.com", "ops@adega.com"}, cfg.AdminEmails)
	assert.Equal(t, "https://adega.example", cfg.PublicBaseURL)
	assert.Equal(t, "local", cfg.UploadBackend)
}

func TestLoadRejectsS3WithoutBucket(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("UPLOAD_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "adega"}
	assert.Equal(t, "host=db user=u password=p dbname=adega port=5432 sslmode=disable", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.PostgresDSN())
}
