package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/game"
)

// RecorderConfig controls how often a recorder writes to its store
type RecorderConfig struct {
	FlushHands    int           // Write after this many settled hands
	FlushInterval time.Duration // Write at least this often while dirty
	Clock         quartz.Clock
}

// Recorder turns table transitions into session records and writes them to
// a Store. Writes happen every FlushHands hands, when the session ends, on
// the flush interval, and on Close.
type Recorder struct {
	store  *Store
	cfg    RecorderConfig
	logger *log.Logger
	ticker *quartz.Ticker

	mu      sync.Mutex
	current *SessionRecord
	pending int
	dirty   bool
	lost    error // first failed write from Observe, reported by the next Flush
}

// NewRecorder creates a recorder. Call Run to enable interval flushing.
func NewRecorder(store *Store, cfg RecorderConfig, logger *log.Logger) *Recorder {
	if cfg.FlushHands <= 0 {
		cfg.FlushHands = 10
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	return &Recorder{
		store:  store,
		cfg:    cfg,
		logger: logger.WithPrefix("history"),
		ticker: cfg.Clock.NewTicker(cfg.FlushInterval, "history", "flush"),
	}
}

// Observe records the transition from prev to next
func (r *Recorder) Observe(prev, next game.GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if next.Session == nil {
		if r.current != nil {
			r.observeFlush()
			r.current = nil
		}
		return
	}

	if r.current == nil || r.current.ID != next.Session.ID {
		if r.current != nil {
			r.observeFlush()
		}
		r.current = newSessionRecord(next)
		r.dirty = true
		r.logger.Info("Recording session", "id", r.current.ID, "players", len(r.current.Players))
		r.observeFlush()
	}

	if prev.Phase == game.PhaseShowdown && next.Phase == game.PhaseSetup && next.HandNumber == prev.HandNumber+1 {
		hand := handRecord(prev, next, r.cfg.Clock.Now())
		r.current.Hands = append(r.current.Hands, hand)
		r.pending++
		r.dirty = true
		r.logger.Debug("Recorded hand", "session", r.current.ID, "hand", hand.Number, "pots", len(hand.Pots))
	}

	if stacks := chipCounts(next); !slices.Equal(stacks, r.current.FinalStacks) {
		r.current.FinalStacks = stacks
		r.dirty = true
	}
	if !slices.Equal(next.Session.Rebuys, r.current.Rebuys) {
		r.current.Rebuys = slices.Clone(next.Session.Rebuys)
		r.dirty = true
	}

	switch {
	case next.Session.Ended() && r.current.EndedAt == nil:
		ended := *next.Session.EndedAt
		r.current.EndedAt = &ended
		r.dirty = true
		r.observeFlush()
	case r.pending >= r.cfg.FlushHands:
		r.observeFlush()
	}
}

// Current returns a copy of the session being recorded, or nil
func (r *Recorder) Current() *SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	out := *r.current
	out.Hands = slices.Clone(r.current.Hands)
	out.FinalStacks = slices.Clone(r.current.FinalStacks)
	out.Rebuys = slices.Clone(r.current.Rebuys)
	return &out
}

// Flush writes the current session if it has unsaved changes. It also
// reports the first write that failed during Observe since the last Flush.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.flushLocked()
	if err == nil {
		err = r.lost
	}
	r.lost = nil
	return err
}

// observeFlush writes from inside Observe, which has no caller to return an
// error to.
func (r *Recorder) observeFlush() {
	if err := r.flushLocked(); err != nil && r.lost == nil {
		r.lost = err
	}
}

func (r *Recorder) flushLocked() error {
	if r.current == nil || !r.dirty {
		return nil
	}
	if err := r.store.Save(r.current); err != nil {
		r.logger.Error("Failed to write session history", "id", r.current.ID, "error", err)
		return err
	}
	r.logger.Debug("Flushed session history", "id", r.current.ID, "hands", len(r.current.Hands))
	r.pending = 0
	r.dirty = false
	return nil
}

// Run flushes on every tick of the flush interval until ctx is done
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.ticker.C:
			r.mu.Lock()
			r.observeFlush()
			r.mu.Unlock()
		}
	}
}

// Close stops interval flushing and writes any unsaved changes
func (r *Recorder) Close() error {
	r.ticker.Stop()
	return r.Flush()
}
