package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 9000
data:
  bucket_url: mem://
  seed_path: testdata/seed.yaml
jwt:
  secret: 0123456789abcdef0123456789abcdef
log:
  level: debug
`

func TestParse(t *testing.T) {
	t.Run("Defaults filled", func(t *testing.T) {
		cfg, err := Parse([]byte(validYAML))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.GetServerAddress())
		assert.Equal(t, "mem://", cfg.Data.BucketURL)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, "alumni-ops", cfg.JWT.Issuer)
		assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.SendEventReminders)
		assert.Equal(t, "Alumni Network", cfg.Email.FromName)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9100")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("DATA_BUCKET_URL", "file:///tmp/alumni")

		cfg, err := Parse([]byte(validYAML))
		require.NoError(t, err)
		assert.Equal(t, 9100, cfg.Server.Port)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "file:///tmp/alumni", cfg.Data.BucketURL)
	})

	t.Run("Short JWT secret", func(t *testing.T) {
		_, err := Parse([]byte("jwt:\n  secret: short\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("Email enabled without key", func(t *testing.T) {
		yml := validYAML + "email:\n  enabled: true\n  from_email: noreply@example.org\n"
		_, err := Parse([]byte(yml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "sendgrid api key")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		_, err := Parse([]byte("server: [unterminated"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/healthz"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/ops/whoami"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("/ops/stores"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("/ops/unknown"))
}
