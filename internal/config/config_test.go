package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Mode)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 5*time.Minute, cfg.SweepInterval)
	require.Equal(t, time.Hour, cfg.RoomTTL)
	require.Equal(t, time.Hour, cfg.MediaTokenTTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CALLBRIDGE_PORT", "9000")
	t.Setenv("CALLBRIDGE_ROOM_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.RoomTTL)
}

func TestOriginAllowed(t *testing.T) {
	wildcard := &Config{AllowedOrigins: []string{"*"}}
	require.True(t, wildcard.OriginAllowed("https://anything.example"))

	strict := &Config{AllowedOrigins: []string{"https://app.example.com"}}
	require.True(t, strict.OriginAllowed("https://app.example.com"))
	require.True(t, strict.OriginAllowed("https://APP.example.com"))
	require.False(t, strict.OriginAllowed("https://evil.example.com"))
}
