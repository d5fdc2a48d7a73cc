package main

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/history"
	"github.com/lox/pokertable/poker"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestSplitHand(t *testing.T) {
	assert.Equal(t, "Ac Kh", splitHand("AcKh"))
	assert.Equal(t, "Ac Kh", splitHand(" Ac Kh "))
	assert.Equal(t, "Ac,Kh", splitHand("Ac,Kh"))
	assert.Equal(t, "10cKh", splitHand("10cKh"))
}

func TestEvaluateHands(t *testing.T) {
	board, results, err := evaluateHands("2c 7d 9h js 3s", []string{"AhAd", "Kc Kd", "9c 9d"})
	require.NoError(t, err)
	assert.Equal(t, "2c 7d 9h Js 3s", board)
	require.Len(t, results, 3)

	assert.Equal(t, "Ah Ad", results[0].Cards)
	assert.Equal(t, poker.CategoryPremium, results[0].Preflop)
	assert.Equal(t, poker.Pair, results[0].Rank.Category)
	assert.Equal(t, poker.ThreeOfAKind, results[2].Rank.Category)

	assert.False(t, results[0].Winner)
	assert.False(t, results[1].Winner)
	assert.True(t, results[2].Winner)

	var out bytes.Buffer
	printResults(&out, board, results)
	assert.Contains(t, out.String(), "Board: 2c 7d 9h Js 3s")
	assert.Contains(t, out.String(), "Winner: seat 2")
}

func TestEvaluateHandsSplit(t *testing.T) {
	_, results, err := evaluateHands("Ac Kd Qh Js Ts", []string{"2c 3c", "4d 5d"})
	require.NoError(t, err)
	assert.True(t, results[0].Winner)
	assert.True(t, results[1].Winner)

	var out bytes.Buffer
	printResults(&out, "Ac Kd Qh Js Ts", results)
	assert.Contains(t, out.String(), "Split pot: seat 0, seat 1")
}

func TestEvaluateHandsErrors(t *testing.T) {
	_, _, err := evaluateHands("2c 7d 9h Js", []string{"AhAd"})
	assert.EqualError(t, err, "board must have exactly 5 cards, got 4")

	_, _, err = evaluateHands("2c 7d 9h Js 3s", []string{"2c Ad"})
	assert.ErrorContains(t, err, "duplicate card")

	_, _, err = evaluateHands("2c 7d 9h Js zz", []string{"AhAd"})
	assert.ErrorContains(t, err, `board: invalid card "zz"`)

	_, _, err = evaluateHands("2c 7d 9h Js 3s", nil)
	assert.Error(t, err)
}

func TestSimulateConservesChips(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts simOptions
	}{
		{"heads up", simOptions{Hands: 100, Players: 2, Stack: 50, SmallBlind: 1, BigBlind: 2}},
		{"full ring", simOptions{Hands: 200, Players: 9, Stack: 100, SmallBlind: 1, BigBlind: 2}},
		{"antes", simOptions{Hands: 150, Players: 6, Stack: 40, SmallBlind: 2, BigBlind: 4, Ante: 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			report, err := simulate(tc.opts, rand.New(rand.NewSource(42)), quietLogger())
			require.NoError(t, err)

			assert.Equal(t, tc.opts.Hands, report.Hands)
			assert.Equal(t, tc.opts.Hands, report.Showdowns+report.Walks)
			assert.Equal(t, tc.opts.Players*tc.opts.Stack+report.Rebuys*tc.opts.Stack, report.Chips)

			sum := 0
			for _, n := range report.Net {
				sum += n
			}
			assert.Zero(t, sum, "session results net to zero")
			assert.Len(t, report.Names, tc.opts.Players)
			assert.Len(t, report.SessionID, 26)
		})
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	opts := simOptions{Hands: 50, Players: 4, Stack: 100, SmallBlind: 1, BigBlind: 2}
	a, err := simulate(opts, rand.New(rand.NewSource(7)), quietLogger())
	require.NoError(t, err)
	b, err := simulate(opts, rand.New(rand.NewSource(7)), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, a.Net, b.Net)
	assert.Equal(t, a.Actions, b.Actions)
	assert.Equal(t, a.Rollbacks, b.Rollbacks)
}

func TestSimulateRejectsBadOptions(t *testing.T) {
	_, err := simulate(simOptions{Hands: 1, Players: 1, Stack: 100}, rand.New(rand.NewSource(1)), quietLogger())
	assert.Error(t, err)
	_, err = simulate(simOptions{Hands: 1, Players: 3}, rand.New(rand.NewSource(1)), quietLogger())
	assert.EqualError(t, err, "stack must be positive")
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, simReport{
		SessionID: "S1",
		Hands:     10,
		Chips:     300,
		Names:     []string{"Bot1", "Bot2"},
		Net:       []int{25, -25},
	}, time.Second)
	assert.Contains(t, out.String(), "Session S1: 10 hands")
	assert.Contains(t, out.String(), "+25")
	assert.Contains(t, out.String(), "-25")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
table {
  small_blind = 5
  big_blind   = 10

  seat "Alice" {
    stack = 500
  }
  seat "Bob" {
    stack = 500
  }
}

history {
  flush_hands = 1
}
`), "test.hcl")
	require.NoError(t, err)
	cfg.History.Dir = t.TempDir()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())

	logger, err = newLogger(&buf, "DEBUG")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	logger.Debug("dealt")
	assert.Contains(t, buf.String(), "dealt")

	logger, err = newLogger(&buf, "loud")
	assert.Nil(t, logger)
	assert.ErrorContains(t, err, `invalid log level "loud"`)

	_, _, err = openLogFile(filepath.Join(t.TempDir(), "table.log"), "loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestInitialState(t *testing.T) {
	s, err := initialState(testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Config.BigBlind)
	require.Len(t, s.Players, 2)
	assert.Equal(t, "Bob", s.Players[1].Name)

	cfg := testConfig(t)
	cfg.Table.SmallBlind, cfg.Table.BigBlind = 20, 10
	_, err = initialState(cfg)
	assert.EqualError(t, err, "configure table: big blind must be at least the small blind")
}

func TestOpenTableRecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	table, recorder, err := openTable(cfg, "", quietLogger())
	require.NoError(t, err)

	version := table.Snapshot().Version
	for _, a := range []game.Action{
		game.StartSession{},
		game.StartHand{},
		game.PlayerAct{Seat: 0, Move: game.MoveFold},
		game.SettleHand{},
	} {
		u, err := table.Submit(version, a)
		require.NoError(t, err, "%s", a.Type())
		version = u.Version
	}
	require.NoError(t, recorder.Close())

	store, err := history.NewStore(cfg.History.Dir)
	require.NoError(t, err)
	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].Hands)
	assert.Equal(t, []string{"Alice", "Bob"}, sessions[0].Players)

	var out bytes.Buffer
	printSessions(&out, sessions)
	assert.Contains(t, out.String(), sessions[0].ID)
	assert.Contains(t, out.String(), "Alice, Bob")

	rec, err := store.Load(sessions[0].ID)
	require.NoError(t, err)
	out.Reset()
	printSession(&out, rec)
	assert.Contains(t, out.String(), "Hand 1")
	assert.Contains(t, out.String(), "-5")
	assert.Contains(t, out.String(), "+5")
	assert.Contains(t, out.String(), "Results")
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	table, _, err := openTable(cfg, "", quietLogger())
	require.NoError(t, err)
	_, err = table.Submit(1, game.StartHand{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, saveSnapshot(path, table))
	require.NoError(t, saveSnapshot("", table), "no path means nothing to save")

	restored, _, err := openTable(cfg, path, quietLogger())
	require.NoError(t, err)
	s := restored.Snapshot().State
	assert.Equal(t, game.PhaseHand, s.Phase)
	assert.Equal(t, 15, s.PotTotal())

	_, err = loadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read snapshot")
}

func TestPrintSessionsEmpty(t *testing.T) {
	var out bytes.Buffer
	printSessions(&out, nil)
	assert.Equal(t, "No sessions recorded\n", out.String())
}
