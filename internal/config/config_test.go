package config

import (
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":       "postgres://localhost/rental",
		"API_BASE_URL": "http://127.0.0.1:5000/api/",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://127.0.0.1:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, reservation.PolicyPermissive, cfg.TransitionPolicy)
	assert.Equal(t, 8, cfg.DigestHour)
	assert.True(t, cfg.IsAllowed(12345))
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":             "postgres://localhost/rental",
		"API_BASE_URL":       "https://rental.example.com/api",
		"ENV":                "production",
		"API_TIMEOUT":        "3s",
		"TIMEZONE":           "Africa/Casablanca",
		"TRANSITION_POLICY":  "strict",
		"DIGEST_HOUR":        "-1",
		"ADMIN_TELEGRAM_IDS": "1, 2,3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "Africa/Casablanca", cfg.Timezone.String())
	assert.Equal(t, reservation.PolicyStrict, cfg.TransitionPolicy)
	assert.Equal(t, -1, cfg.DigestHour)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedTelegramIDs)
	assert.True(t, cfg.IsAllowed(2))
	assert.False(t, cfg.IsAllowed(4))
}

func TestFromEnvErrors(t *testing.T) {
	base := map[string]string{
		"DB_DSN":       "postgres://localhost/rental",
		"API_BASE_URL": "http://127.0.0.1:5000/api",
	}

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing dsn", "DB_DSN", ""},
		{"missing api url", "API_BASE_URL", ""},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"negative timeout", "API_TIMEOUT", "-1s"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus"},
		{"bad policy", "TRANSITION_POLICY", "whatever"},
		{"bad hour", "DIGEST_HOUR", "24"},
		{"bad ids", "ADMIN_TELEGRAM_IDS", "1,abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := make(map[string]string, len(base)+1)
			for k, v := range base {
				env[k] = v
			}
			env[tt.key] = tt.value

			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
