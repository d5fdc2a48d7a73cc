package server

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/gameid"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var tableStart = time.Date(2024, 5, 4, 20, 0, 0, 0, time.UTC)

type transition struct {
	prev, next game.GameState
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []transition
}

func (o *recordingObserver) Observe(prev, next game.GameState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, transition{prev, next})
}

func (o *recordingObserver) transitions() []transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]transition(nil), o.seen...)
}

func newTestTable(t *testing.T, observer Observer) (*Table, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(tableStart)
	ids := gameid.NewGenerator(clock, rand.New(rand.NewSource(7)))
	return NewTable(game.NewTestTable(), TableOptions{Clock: clock, IDs: ids, Observer: observer}, testLogger()), clock
}

func TestTableSubmit(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(t, nil)
	start := table.Snapshot()
	assert.Equal(t, uint64(1), start.Version)

	update, err := table.Submit(1, game.StartHand{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), update.Version)
	assert.Equal(t, game.TypeStartHand, update.Action)
	assert.Equal(t, game.PhaseHand, update.State.Phase)

	t.Run("stale base", func(t *testing.T) {
		update, err := table.Submit(1, game.PlayerAct{Seat: 0, Move: game.MoveFold})
		assert.ErrorIs(t, err, ErrStaleVersion)
		assert.Equal(t, uint64(2), update.Version, "stale replies carry the current version")
	})

	t.Run("illegal action", func(t *testing.T) {
		seat := table.Snapshot().State.ActionSeat
		wrong := (seat + 1) % 3
		_, err := table.Submit(2, game.PlayerAct{Seat: wrong, Move: game.MoveFold})
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "turn")

		after := table.Snapshot()
		assert.Equal(t, uint64(2), after.Version)
		assert.Empty(t, after.State.LastError)
	})

	t.Run("nil action", func(t *testing.T) {
		_, err := table.Submit(2, nil)
		assert.ErrorIs(t, err, ErrRejected)
	})
}

func TestTableStampsSessions(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	table, clock := newTestTable(t, nil)
	update, err := table.Submit(1, game.StartSession{})
	require.NoError(t, err)

	session := update.State.Session
	require.NotNil(t, session)
	require.NoError(t, gameid.Validate(session.ID))
	assert.True(t, session.StartedAt.Equal(tableStart))

	clock.Advance(time.Hour).MustWait(ctx)
	update, err = table.Submit(update.Version, game.EndSession{})
	require.NoError(t, err)
	require.NotNil(t, update.State.Session.EndedAt)
	assert.True(t, update.State.Session.EndedAt.Equal(tableStart.Add(time.Hour)))

	explicit := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	update, err = table.Submit(update.Version, game.StartSession{ID: "evening", At: explicit})
	require.NoError(t, err)
	assert.Equal(t, "evening", update.State.Session.ID)
	assert.True(t, update.State.Session.StartedAt.Equal(explicit))
}

func TestTableNotifiesObserver(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	table, _ := newTestTable(t, observer)

	update, err := table.Submit(1, game.StartHand{})
	require.NoError(t, err)
	_, err = table.Submit(update.Version, game.SetBoard{Text: "bad time"})
	require.NoError(t, err)
	_, err = table.Submit(1, game.CancelHand{})
	require.ErrorIs(t, err, ErrStaleVersion)

	seen := observer.transitions()
	require.Len(t, seen, 2, "rejected submissions are not observed")
	assert.Equal(t, game.PhaseSetup, seen[0].prev.Phase)
	assert.Equal(t, game.PhaseHand, seen[0].next.Phase)
	assert.Equal(t, "bad time", seen[1].next.Board)
}

func TestTableSubscribe(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(t, nil)
	updates, unsubscribe := table.Subscribe()

	_, err := table.Submit(1, game.StartHand{})
	require.NoError(t, err)

	select {
	case u := <-updates:
		assert.Equal(t, uint64(2), u.Version)
		assert.Equal(t, game.PhaseHand, u.State.Phase)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}

	unsubscribe()
	unsubscribe()
	_, ok := <-updates
	assert.False(t, ok, "channel closes on unsubscribe")

	_, err = table.Submit(2, game.CancelHand{})
	require.NoError(t, err)
}

func TestTableAdopt(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(t, nil)
	replacement := game.NewTestTable(game.WithStacks(50, 60), game.WithBlinds(5, 10))

	update, err := table.Adopt(1, replacement)
	require.NoError(t, err)
	assert.Equal(t, game.TypeAdoptSnapshot, update.Action)
	assert.Equal(t, 10, update.State.Config.BigBlind)
	require.Len(t, update.State.Players, 2)
	assert.Equal(t, 60, update.State.Players[1].Stack)
}
