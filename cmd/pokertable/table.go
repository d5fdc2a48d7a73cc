package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/fileutil"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/history"
	"github.com/lox/pokertable/internal/server"
)

// openTable creates the authoritative table and its history recorder. A
// snapshot path replaces the configured table.
func openTable(cfg *config.Config, snapshot string, logger *log.Logger) (*server.Table, *history.Recorder, error) {
	var (
		initial game.GameState
		err     error
	)
	if snapshot != "" {
		initial, err = loadSnapshot(snapshot)
		logger.Info("Loaded snapshot", "path", snapshot, "players", len(initial.Players))
	} else {
		initial, err = initialState(cfg)
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := history.NewStore(cfg.History.Dir)
	if err != nil {
		return nil, nil, err
	}
	interval, err := cfg.History.Interval()
	if err != nil {
		return nil, nil, err
	}
	recorder := history.NewRecorder(store, history.RecorderConfig{
		FlushHands:    cfg.History.FlushHands,
		FlushInterval: interval,
	}, logger)

	table := server.NewTable(initial, server.TableOptions{Observer: recorder}, logger)
	return table, recorder, nil
}

func saveSnapshot(path string, table *server.Table) error {
	if path == "" {
		return nil
	}
	if err := fileutil.WriteJSONAtomic(path, table.Snapshot().State, 0o644); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
