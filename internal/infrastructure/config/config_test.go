package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults and pick memory storage without a DB URL", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("COURIER_AUTH_SECRET", "s3cret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, ":5000", cfg.HTTP.Address)
		assert.Equal(t, StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, 128, cfg.Realtime.SendBuffer)
		assert.True(t, cfg.Realtime.CloseDisplaced)
	})

	t.Run("Should honour legacy variables", func(t *testing.T) {
		t.Setenv("COURIER_AUTH_SECRET", "s3cret")
		t.Setenv("DB_URL", "postgres://u:p@localhost:5432/app")
		t.Setenv("PORT", "8080")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.HTTP.Address)
		assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
		assert.Equal(t, "postgres://u:p@localhost:5432/app", cfg.DB.URL)
	})

	t.Run("Should let prefixed variables override everything", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("PORT", "8080")
		t.Setenv("COURIER_AUTH_SECRET", "s3cret")
		t.Setenv("COURIER_HTTP_ADDRESS", ":9000")
		t.Setenv("COURIER_REALTIME_SEND_BUFFER", "16")
		t.Setenv("COURIER_REALTIME_WRITE_WAIT", "2s")
		t.Setenv("COURIER_REALTIME_CLOSE_DISPLACED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.HTTP.Address)
		assert.Equal(t, 16, cfg.Realtime.SendBuffer)
		assert.Equal(t, 2*time.Second, cfg.Realtime.WriteWait)
		assert.False(t, cfg.Realtime.CloseDisplaced)
	})

	t.Run("Should fail without an auth secret", func(t *testing.T) {
		t.Setenv("COURIER_AUTH_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth.secret")
	})
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"COURIER_HTTP_ADDRESS":         "http.address",
		"COURIER_REALTIME_SEND_BUFFER": "realtime.send_buffer",
		"COURIER_AUTH_SIGNING_METHOD":  "auth.signing_method",
		"COURIER_STANDALONE":           "standalone",
	}
	for in, want := range cases {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestCORSOriginList(t *testing.T) {
	c := HTTPConfig{CORSOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOriginList())
	assert.Empty(t, HTTPConfig{}.CORSOriginList())
}
