package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/server"
)

// ServeCmd runs the authoritative table behind a WebSocket server
type ServeCmd struct {
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	Snapshot string `help:"Start from a saved table snapshot instead of the configured table" type:"existingfile"`
	Save     string `help:"Write the table snapshot here on shutdown"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}

	logger, err := newLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	table, recorder, err := openTable(cfg, c.Snapshot, logger)
	if err != nil {
		return err
	}
	srv := server.NewServer(table, logger)

	logger.Info("Starting pokertable server",
		"addr", cfg.Server.Address,
		"players", len(table.Snapshot().State.Players),
		"history", cfg.History.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Serve(gctx, cfg.Server.Address)
	})
	group.Go(func() error {
		return recorder.Run(gctx)
	})
	err = group.Wait()

	if cerr := recorder.Close(); err == nil {
		err = cerr
	}
	if serr := saveSnapshot(c.Save, table); err == nil {
		err = serr
	}
	logger.Info("Server stopped")
	return err
}
