package main

import (
	"time"

	"github.com/coder/quartz"

	"github.com/lox/pokerparty/cmd/pokerparty/shared"
	"github.com/lox/pokerparty/internal/server"
)

// ServeCmd contains server configuration
type ServeCmd struct {
	Config          string `kong:"default='pokerparty.hcl',help='Path to HCL config file'"`
	Addr            string `kong:"help='Listen address, overrides the config file (e.g. :8080)'"`
	Debug           bool   `kong:"help='Enable debug logging'"`
	StartingBalance int    `kong:"help='Starting chip count per participant, overrides the config file'"`
	LogSize         int    `kong:"help='Game log entries retained, overrides the config file'"`
	Seed            *int64 `kong:"help='Deterministic RNG seed for shuffles (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address, cfg.Server.Port, err = shared.SplitAddr(c.Addr)
		if err != nil {
			return err
		}
	}
	if c.StartingBalance > 0 {
		cfg.Game.StartingBalance = c.StartingBalance
	}
	if c.LogSize > 0 {
		cfg.Game.LogSize = c.LogSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	}

	ctx := shared.SetupSignalHandler(logger)
	srv := server.NewServer(cfg, seed, quartz.NewReal(), logger)
	return srv.Start(ctx)
}
