// Package config loads the pokertable HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertable/internal/game"
)

// Config represents the complete configuration
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Table   *TableSettings   `hcl:"table,block"`
	History *HistorySettings `hcl:"history,block"`
}

// ServerSettings contains process-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings is the table a server or local game starts with
type TableSettings struct {
	SmallBlind int          `hcl:"small_blind,optional"`
	BigBlind   int          `hcl:"big_blind,optional"`
	Ante       int          `hcl:"ante,optional"`
	Seats      []SeatConfig `hcl:"seat,block"`
}

// SeatConfig is one named seat and its starting stack
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Stack int    `hcl:"stack"`
}

// HistorySettings controls where and how often session history is written
type HistorySettings struct {
	Dir           string `hcl:"dir,optional"`
	FlushHands    int    `hcl:"flush_hands,optional"`
	FlushInterval string `hcl:"flush_interval,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Table == nil {
		defaults := game.DefaultConfig()
		c.Table = &TableSettings{SmallBlind: defaults.SmallBlind, BigBlind: defaults.BigBlind}
	}

	if c.History == nil {
		c.History = &HistorySettings{}
	}
	if c.History.Dir == "" {
		c.History.Dir = "hands"
	}
	if c.History.FlushHands == 0 {
		c.History.FlushHands = 10
	}
	if c.History.FlushInterval == "" {
		c.History.FlushInterval = "30s"
	}
}

// Validate checks the configuration for values the table would reject
func (c *Config) Validate() error {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	t := c.Table
	if t.SmallBlind < 0 || t.BigBlind < 0 || t.Ante < 0 {
		return fmt.Errorf("blinds and ante must not be negative")
	}
	if t.BigBlind < t.SmallBlind {
		return fmt.Errorf("big blind (%d) must be at least the small blind (%d)", t.BigBlind, t.SmallBlind)
	}
	if len(t.Seats) > game.MaxSeats {
		return fmt.Errorf("at most %d seats, got %d", game.MaxSeats, len(t.Seats))
	}
	seen := make(map[string]bool)
	for _, seat := range t.Seats {
		if strings.TrimSpace(seat.Name) == "" {
			return fmt.Errorf("seat name must not be empty")
		}
		if seen[seat.Name] {
			return fmt.Errorf("duplicate seat %q", seat.Name)
		}
		seen[seat.Name] = true
		if seat.Stack < 0 {
			return fmt.Errorf("seat %q stack must not be negative", seat.Name)
		}
	}

	if c.History.FlushHands < 0 {
		return fmt.Errorf("flush_hands must not be negative")
	}
	if _, err := c.History.Interval(); err != nil {
		return err
	}
	return nil
}

// Interval parses FlushInterval
func (h *HistorySettings) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(h.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid flush_interval %q: %w", h.FlushInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("flush_interval must be positive, got %s", d)
	}
	return d, nil
}

// Actions returns the actions that set a fresh table up with these stakes
// and seats. Seats are omitted when none are configured.
func (t *TableSettings) Actions() []game.Action {
	actions := []game.Action{
		game.Configure{SmallBlind: t.SmallBlind, BigBlind: t.BigBlind, Ante: t.Ante},
	}
	if len(t.Seats) == 0 {
		return actions
	}
	seats := make([]game.SeatSpec, len(t.Seats))
	for i, s := range t.Seats {
		seats[i] = game.SeatSpec{Name: s.Name, Stack: s.Stack}
	}
	return append(actions, game.SetPlayers{Players: seats})
}
