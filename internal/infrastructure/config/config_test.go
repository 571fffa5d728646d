package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"EQUIP_APP_NAME":           os.Getenv("EQUIP_APP_NAME"),
		"EQUIP_APP_ENV":            os.Getenv("EQUIP_APP_ENV"),
		"EQUIP_APP_PORT":           os.Getenv("EQUIP_APP_PORT"),
		"EQUIP_DATABASE_DRIVER":    os.Getenv("EQUIP_DATABASE_DRIVER"),
		"EQUIP_DATABASE_PATH":      os.Getenv("EQUIP_DATABASE_PATH"),
		"EQUIP_DATABASE_HOST":      os.Getenv("EQUIP_DATABASE_HOST"),
		"EQUIP_DATABASE_PORT":      os.Getenv("EQUIP_DATABASE_PORT"),
		"EQUIP_DATABASE_USER":      os.Getenv("EQUIP_DATABASE_USER"),
		"EQUIP_DATABASE_PASSWORD":  os.Getenv("EQUIP_DATABASE_PASSWORD"),
		"EQUIP_DATABASE_DBNAME":    os.Getenv("EQUIP_DATABASE_DBNAME"),
		"EQUIP_DATABASE_SSLMODE":   os.Getenv("EQUIP_DATABASE_SSLMODE"),
		"EQUIP_STORAGE_BACKEND":    os.Getenv("EQUIP_STORAGE_BACKEND"),
		"EQUIP_STORAGE_BUCKET":     os.Getenv("EQUIP_STORAGE_BUCKET"),
		"EQUIP_GEMINI_API_KEY":     os.Getenv("EQUIP_GEMINI_API_KEY"),
		"EQUIP_AUTH_USERNAME":      os.Getenv("EQUIP_AUTH_USERNAME"),
		"EQUIP_AUTH_PASSWORD_HASH": os.Getenv("EQUIP_AUTH_PASSWORD_HASH"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "equipment-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "data/equipment.db", cfg.Database.Path)
		assert.Equal(t, "local", cfg.Storage.Backend)
		assert.Equal(t, "data/product-images", cfg.Storage.LocalDir)
		assert.Equal(t, "gemini-2.0-flash-lite", cfg.Gemini.Model)
		assert.Equal(t, 1000, cfg.Google.VisionFreeLimit)
		assert.Equal(t, 10, cfg.Search.MaxResults)
	})

	t.Run("loads values from environment variables with EQUIP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("EQUIP_APP_PORT", "9000")
		os.Setenv("EQUIP_DATABASE_DRIVER", "postgres")
		os.Setenv("EQUIP_DATABASE_HOST", "testdb.local")
		os.Setenv("EQUIP_DATABASE_PORT", "5433")
		os.Setenv("EQUIP_DATABASE_USER", "testuser")
		os.Setenv("EQUIP_DATABASE_PASSWORD", "testpass")
		os.Setenv("EQUIP_DATABASE_DBNAME", "testdb")
		os.Setenv("EQUIP_DATABASE_SSLMODE", "require")
		os.Setenv("EQUIP_GEMINI_API_KEY", "test-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("EQUIP_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects s3 backend without bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("EQUIP_STORAGE_BACKEND", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects auth username without password hash", func(t *testing.T) {
		clearEnv()
		os.Setenv("EQUIP_AUTH_USERNAME", "admin")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth.password_hash")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "equipment",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
