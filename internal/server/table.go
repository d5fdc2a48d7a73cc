package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/gameid"
)

var (
	// ErrStaleVersion is returned when a submission was built against an
	// older version of the table than the current one.
	ErrStaleVersion = errors.New("stale table version")

	// ErrRejected wraps the reducer's error for an illegal action.
	ErrRejected = errors.New("action rejected")
)

// Update is one accepted transition of the table
type Update struct {
	Version uint64
	Action  game.ActionType
	State   game.GameState
}

// Observer is told about every accepted transition, in order
type Observer interface {
	Observe(prev, next game.GameState)
}

// TableOptions configures a Table. Zero values use the real clock and a
// fresh ID generator.
type TableOptions struct {
	Clock    quartz.Clock
	IDs      *gameid.Generator
	Observer Observer
}

// Table owns the authoritative state of one table. Submissions are applied
// one at a time in arrival order and every accepted transition bumps the
// version and fans out to subscribers.
type Table struct {
	clock    quartz.Clock
	ids      *gameid.Generator
	observer Observer
	logger   *log.Logger

	mu      sync.Mutex
	state   game.GameState
	version uint64
	subs    map[int]chan Update
	nextSub int
}

// NewTable creates a table starting from initial at version 1
func NewTable(initial game.GameState, opts TableOptions, logger *log.Logger) *Table {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.IDs == nil {
		opts.IDs = gameid.NewGenerator(opts.Clock, nil)
	}
	initial = initial.Clone()
	initial.LastError = ""
	return &Table{
		clock:    opts.Clock,
		ids:      opts.IDs,
		observer: opts.Observer,
		logger:   logger.WithPrefix("table"),
		state:    initial,
		version:  1,
		subs:     make(map[int]chan Update),
	}
}

// Snapshot returns the current state and its version
func (t *Table) Snapshot() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Update{Version: t.version, State: t.state.Clone()}
}

// Submit applies a against the table if base is the current version.
// Rejected actions leave the table unchanged.
func (t *Table) Submit(base uint64, a game.Action) (Update, error) {
	if a == nil {
		return Update{}, fmt.Errorf("%w: nil action", ErrRejected)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if base != t.version {
		return Update{Version: t.version, State: t.state.Clone()},
			fmt.Errorf("%w: submitted against %d, table is at %d", ErrStaleVersion, base, t.version)
	}

	a = t.stamp(a)
	next := game.Apply(t.state, a)
	if next.LastError != "" {
		t.logger.Debug("Rejected action", "type", a.Type(), "error", next.LastError)
		return Update{Version: t.version, State: t.state.Clone()},
			fmt.Errorf("%w: %s", ErrRejected, next.LastError)
	}

	prev := t.state
	t.state = next
	t.version++
	update := Update{Version: t.version, Action: a.Type(), State: next}

	t.logger.Debug("Applied action", "type", a.Type(), "version", t.version, "phase", next.Phase)
	if t.observer != nil {
		t.observer.Observe(prev, next)
	}
	t.broadcastLocked(update)
	return Update{Version: update.Version, Action: update.Action, State: next.Clone()}, nil
}

// Adopt replaces the whole state with s
func (t *Table) Adopt(base uint64, s game.GameState) (Update, error) {
	return t.Submit(base, game.AdoptSnapshot{State: s})
}

// stamp fills the session ID and timestamps the caller left empty
func (t *Table) stamp(a game.Action) game.Action {
	switch a := a.(type) {
	case game.StartSession:
		if a.ID == "" {
			a.ID = t.ids.Generate()
		}
		if a.At.IsZero() {
			a.At = t.clock.Now().UTC()
		}
		return a
	case game.EndSession:
		if a.At.IsZero() {
			a.At = t.clock.Now().UTC()
		}
		return a
	}
	return a
}

// Subscribe returns a channel of accepted updates and a function that
// cancels the subscription. Slow subscribers miss updates rather than block
// the table; each update carries the full state so the next one catches up.
func (t *Table) Subscribe() (<-chan Update, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan Update, 32)
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			close(ch)
		})
	}
}

func (t *Table) broadcastLocked(u Update) {
	for id, ch := range t.subs {
		select {
		case ch <- Update{Version: u.Version, Action: u.Action, State: u.State.Clone()}:
		default:
			t.logger.Warn("Subscriber buffer full, dropping update", "subscriber", id, "version", u.Version)
		}
	}
}
