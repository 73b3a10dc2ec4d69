package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a Config
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if strings.TrimSpace(cfg.ServerPort) == "" {
		add("SERVER_PORT", "must not be empty")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				add(field, "is required for the postgres driver")
			}
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
		if cfg.Environment == Production {
			add("DB_DRIVER", "sqlite is not supported in production")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "must not be empty")
	} else if cfg.Environment == Production && cfg.JWTSecret == defaultJWTSecret {
		add("JWT_SECRET", "the development default must not be used in production")
	}
	if cfg.JWTTTL <= 0 {
		add("JWT_TTL", "must be a positive duration")
	}

	switch cfg.StorageBackend {
	case StorageLocal:
		if cfg.MediaRoot == "" {
			add("MEDIA_ROOT", "is required for local storage")
		}
	case StorageS3:
		if cfg.S3BucketName == "" {
			add("S3_BUCKET_NAME", "is required for s3 storage")
		}
	default:
		add("STORAGE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StorageBackend))
	}

	if strings.TrimSpace(cfg.UploadDir) == "" {
		add("UPLOAD_DIR", "must not be empty")
	} else if strings.HasPrefix(cfg.UploadDir, "/") || strings.Contains(cfg.UploadDir, "..") {
		add("UPLOAD_DIR", "must be a relative path inside the media root")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
