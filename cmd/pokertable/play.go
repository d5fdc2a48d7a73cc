package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokertable/internal/tui"
)

// PlayCmd runs a table in-process and drives it from the terminal
type PlayCmd struct {
	Snapshot string `help:"Start from a saved table snapshot instead of the configured table" type:"existingfile"`
	Save     string `help:"Write the table snapshot here on exit"`
	LogFile  string `help:"Write logs to this file" default:"pokertable.log"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogFile(c.LogFile, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	table, recorder, err := openTable(cfg, c.Snapshot, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error("Failed to flush history", "error", err)
		}
	}()

	model := tui.NewModel(tui.NewLocalBackend(table), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return saveSnapshot(c.Save, table)
}
