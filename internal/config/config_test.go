package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, key := range []string{"STORE_DRIVER", "POSTGRES_URL", "APPEARANCE", "PLATFORM", "DIALER_SCHEMES", "MAX_DB_RETRIES", "CALL_CONNECT_DELAY"} {
		t.Setenv(key, "")
	}
	// An empty STORE_DRIVER counts as set; restore the default explicitly.
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("PLATFORM", "ios")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.MaxDBRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.CallConnectDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.CallDismissDelay)
	assert.Equal(t, "en", cfg.Locale)
	assert.Empty(t, cfg.DialerSchemes)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost/contacts")
	t.Setenv("MAX_DB_RETRIES", "3")
	t.Setenv("SEED_GROUPS", "true")
	t.Setenv("CALL_CONNECT_DELAY", "2s")
	t.Setenv("DIALER_SCHEMES", " TEL , ,sms")
	t.Setenv("PLATFORM", "android")
	t.Setenv("APPEARANCE", "dark")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.MaxDBRetries)
	assert.True(t, cfg.SeedGroups)
	assert.Equal(t, 2*time.Second, cfg.CallConnectDelay)
	assert.Equal(t, []string{"tel", "sms"}, cfg.DialerSchemes)
	assert.Equal(t, "android", cfg.Platform)
	assert.Equal(t, "dark", cfg.Appearance)
}

func TestLoadValidation(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("POSTGRES_URL", "")
		t.Setenv("PLATFORM", "ios")
		t.Setenv("APPEARANCE", "")
		_, err := Load()
		assert.ErrorContains(t, err, "POSTGRES_URL")
	})

	t.Run("bad values are all reported", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("STORE_DRIVER", "mongo")
		t.Setenv("PLATFORM", "windows")
		t.Setenv("APPEARANCE", "blue")
		t.Setenv("MAX_DB_RETRIES", "many")
		_, err := Load()
		require.Error(t, err)
		assert.ErrorContains(t, err, "STORE_DRIVER")
		assert.ErrorContains(t, err, "PLATFORM")
		assert.ErrorContains(t, err, "APPEARANCE")
		assert.ErrorContains(t, err, "MAX_DB_RETRIES")
	})
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "7")
	n, err := GetEnvInt("X_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	t.Setenv("X_DUR", "-1s")
	d, err := GetEnvDuration("X_DUR", time.Second)
	assert.Error(t, err)
	assert.Equal(t, time.Second, d)

	assert.Equal(t, "fallback", GetEnv("X_MISSING_FOR_TEST", "fallback"))
}
