package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokertable/internal/client"
	"github.com/lox/pokertable/internal/tui"
)

// ClientCmd drives a table hosted by pokertable serve
type ClientCmd struct {
	Server  string        `short:"s" help:"Server URL" default:"ws://localhost:8080"`
	LogFile string        `help:"Write logs to this file" default:"pokertable-client.log"`
	Timeout time.Duration `help:"Connection timeout" default:"10s"`
}

func (c *ClientCmd) Run(g *Globals) error {
	logger, closeLog, err := openLogFile(c.LogFile, g.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	conn, err := client.Dial(ctx, c.Server, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	model := tui.NewModel(tui.NewRemoteBackend(conn), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
