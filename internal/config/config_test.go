package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load()
	req.NoError(err)

	req.Equal(":8000", cfg.HTTPAddr)
	req.Equal("development", cfg.Env)
	req.Equal(1000, cfg.MaxRooms)
	req.Equal(time.Hour, cfg.CleanupInterval)
	req.Equal(2*time.Hour, cfg.RoomIdleTimeout)
	req.Equal(60*time.Second, cfg.DisconnectGrace)
	req.Empty(cfg.NATSURL)
	req.NotEmpty(cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("HTTP_ADDR", ":9001")
	t.Setenv("MAX_ROOMS", "5")
	t.Setenv("ROOM_IDLE_TIMEOUT", "30m")
	t.Setenv("DISCONNECT_GRACE", "10s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	req.NoError(err)

	req.Equal(":9001", cfg.HTTPAddr)
	req.Equal(5, cfg.MaxRooms)
	req.Equal(30*time.Minute, cfg.RoomIdleTimeout)
	req.Equal(10*time.Second, cfg.DisconnectGrace)
	req.Equal([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
