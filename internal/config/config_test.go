package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
)

const sample = `
server {
  address   = "0.0.0.0:9000"
  log_level = "debug"
}

table {
  small_blind = 5
  big_blind   = 10
  ante        = 1

  seat "Alice" {
    stack = 500
  }
  seat "Bob" {
    stack = 300
  }
}

history {
  dir            = "/var/lib/pokertable"
  flush_hands    = 3
  flush_interval = "1m"
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "0.0.0.0:9000", c.Server.Address)
	assert.Equal(t, "debug", c.Server.LogLevel)
	assert.Equal(t, []SeatConfig{{Name: "Alice", Stack: 500}, {Name: "Bob", Stack: 300}}, c.Table.Seats)
	assert.Equal(t, 3, c.History.FlushHands)

	interval, err := c.History.Interval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)
}

func TestTableActionsBuildTable(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)

	s := game.NewState()
	for _, a := range c.Table.Actions() {
		s = game.Apply(s, a)
		require.Empty(t, s.LastError)
	}
	assert.Equal(t, game.Config{SmallBlind: 5, BigBlind: 10, Ante: 1}, s.Config)
	require.Len(t, s.Players, 2)
	assert.Equal(t, "Bob", s.Players[1].Name)
	assert.Equal(t, 300, s.Players[1].Stack)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "localhost:8080", c.Server.Address)
	assert.Equal(t, "info", c.Server.LogLevel)
	assert.Equal(t, 1, c.Table.SmallBlind)
	assert.Equal(t, 2, c.Table.BigBlind)
	assert.Equal(t, "hands", c.History.Dir)
	assert.Len(t, c.Table.Actions(), 1, "no seats configured")

	partial, err := Parse([]byte(`history { flush_hands = 1 }`), "partial.hcl")
	require.NoError(t, err)
	assert.Equal(t, 1, partial.History.FlushHands)
	assert.Equal(t, "30s", partial.History.FlushInterval)
	assert.Equal(t, 2, partial.Table.BigBlind)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pokertable.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Table.BigBlind)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Parse([]byte("table {\n  seat \"A\" {}\n}\n"), "nostack.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"bad log level", `server { log_level = "loud" }`, "invalid log level: loud"},
		{"inverted blinds", `table {
small_blind = 10
big_blind = 5
}`, "big blind (5) must be at least the small blind (10)"},
		{"duplicate seat", `table {
seat "A" { stack = 1 }
seat "A" { stack = 2 }
}`, `duplicate seat "A"`},
		{"negative stack", `table {
seat "A" { stack = -5 }
}`, `seat "A" stack must not be negative`},
		{"bad interval", `history { flush_interval = "soon" }`, `invalid flush_interval "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}
