package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8000"`
	Env      string `envconfig:"ENV" default:"development"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	MaxRooms int `envconfig:"MAX_ROOMS" default:"1000"`

	// CleanupInterval is how often the janitor sweeps. RoomIdleTimeout and
	// DisconnectGrace are deliberately independent knobs: the first reclaims
	// rooms nobody touches at all, the second evicts a single unreachable
	// seat while the room itself may still be healthy.
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
	RoomIdleTimeout time.Duration `envconfig:"ROOM_IDLE_TIMEOUT" default:"2h"`
	DisconnectGrace time.Duration `envconfig:"DISCONNECT_GRACE" default:"60s"`

	// Optional. When set, room broadcasts are relayed across instances.
	NATSURL string `envconfig:"NATS_URL"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
