package server

import (
	"net"

	"github.com/caarlos0/env/v11"
	"github.com/justmike2000/itemwars/model"
)

// Config is the server runtime configuration, read from ITEMWARS_*
// environment variables with CLI flags layered on top by the entry point.
type Config struct {
	Addr       string `env:"ITEMWARS_ADDR" envDefault:"localhost:7878"`
	StatusAddr string `env:"ITEMWARS_STATUS_ADDR"`
}

// ConfigFromEnv loads configuration from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GameServer owns the session registry: every session plus the counter
// that mints session ids. All mutation happens on the single receive
// goroutine, so no locking is needed; a slow reply delays the next
// datagram instead.
type GameServer struct {
	Games []*model.NetworkedGame

	cfg       Config
	gameCount int
	conn      net.PacketConn
	done      chan struct{}
}

func NewGameServer(cfg Config) *GameServer {
	return &GameServer{
		Games: make([]*model.NetworkedGame, 0),
		cfg:   cfg,
		done:  make(chan struct{}),
	}
}
