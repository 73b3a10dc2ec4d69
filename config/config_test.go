package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "recipes")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recipes_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("UPLOAD_DIR", "uploads/recipe")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "recipes", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "recipes_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.DSN(), "dbname=recipes_test")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	for _, key := range []string{"DB_DRIVER", "JWT_SECRET", "REDIS_URL", "REDIS_HOST", "MEDIA_ROOT", "UPLOAD_DIR", "STORAGE_BACKEND"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "recipes.db", cfg.SQLitePath)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "media", cfg.MediaRoot)
	assert.Equal(t, "/media/", cfg.MediaURL)
	assert.Equal(t, "uploads/recipe", cfg.UploadDir)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("pg-secret"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "pg-secret", cfg.DBPassword)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:    Development,
			ServerPort:     "8080",
			DBDriver:       DriverSQLite,
			SQLitePath:     ":memory:",
			JWTSecret:      "secret",
			JWTTTL:         time.Hour,
			StorageBackend: StorageLocal,
			MediaRoot:      "media",
			UploadDir:      "uploads/recipe",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"sqlite in production", func(c *Config) { c.Environment = Production }, "DB_DRIVER"},
		{"default jwt secret in production", func(c *Config) {
			c.Environment = Production
			c.JWTSecret = defaultJWTSecret
		}, "JWT_SECRET"},
		{"missing s3 bucket", func(c *Config) { c.StorageBackend = StorageS3 }, "S3_BUCKET_NAME"},
		{"absolute upload dir", func(c *Config) { c.UploadDir = "/etc" }, "UPLOAD_DIR"},
		{"escaping upload dir", func(c *Config) { c.UploadDir = "../outside" }, "UPLOAD_DIR"},
		{"postgres without host", func(c *Config) {
			c.DBDriver = DriverPostgres
			c.DBPort, c.DBUser, c.DBName = "5432", "u", "n"
		}, "DB_HOST"},
	}

	require.NoError(t, ValidateConfig(valid()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
