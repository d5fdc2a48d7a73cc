package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/game"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"pokertable.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level: debug, info, warn or error (overrides config)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Serve a table over WebSocket"`
	Play     PlayCmd          `cmd:"" help:"Run a table locally in the terminal"`
	Client   ClientCmd        `cmd:"" help:"Drive a table on a remote server"`
	Eval     EvalCmd          `cmd:"" help:"Rank hole cards on a board"`
	Simulate SimulateCmd      `cmd:"" help:"Play random legal hands and check chip conservation"`
	History  HistoryCmd       `cmd:"" help:"Inspect recorded sessions"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("Rules engine and dealer console for a live poker table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the config file and applies the global overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates a logger writing to w at the given level. An empty
// level means info.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, Level: lvl}), nil
}

// openLogFile returns a logger for commands that own the terminal
func openLogFile(path, level string) (*log.Logger, func(), error) {
	if path == "" {
		logger, err := newLogger(io.Discard, level)
		return logger, func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := newLogger(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}

// initialState builds the configured table
func initialState(cfg *config.Config) (game.GameState, error) {
	s := game.NewState()
	for _, a := range cfg.Table.Actions() {
		s = game.Apply(s, a)
		if s.LastError != "" {
			return game.GameState{}, fmt.Errorf("configure table: %s", s.LastError)
		}
	}
	return s, nil
}

// loadSnapshot reads a saved table of any supported version
func loadSnapshot(path string) (game.GameState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return game.GameState{}, fmt.Errorf("read snapshot: %w", err)
	}
	return game.DecodeSnapshot(raw)
}
