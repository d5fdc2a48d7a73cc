package game

import (
	"fmt"
	"time"
)

// TestTableOption configures test table creation
type TestTableOption func(*testTableBuilder)

type testTableBuilder struct {
	config  Config
	stacks  []int
	dealer  int
	session bool
}

func WithBlinds(small, big int) TestTableOption {
	return func(b *testTableBuilder) {
		b.config.SmallBlind = small
		b.config.BigBlind = big
	}
}

func WithAnte(ante int) TestTableOption {
	return func(b *testTableBuilder) { b.config.Ante = ante }
}

func WithStacks(stacks ...int) TestTableOption {
	return func(b *testTableBuilder) { b.stacks = stacks }
}

func WithDealer(seat int) TestTableOption {
	return func(b *testTableBuilder) { b.dealer = seat }
}

func WithSession() TestTableOption {
	return func(b *testTableBuilder) { b.session = true }
}

// NewTestTable builds a setup-phase state through the reducer. Defaults to
// three 200-chip players at 1/2.
func NewTestTable(opts ...TestTableOption) GameState {
	b := &testTableBuilder{
		config: Config{SmallBlind: 1, BigBlind: 2},
		stacks: []int{200, 200, 200},
	}
	for _, opt := range opts {
		opt(b)
	}

	seats := make([]SeatSpec, len(b.stacks))
	for i, stack := range b.stacks {
		seats[i] = SeatSpec{Name: fmt.Sprintf("P%d", i), Stack: stack}
	}

	s := NewState()
	s = mustApply(s, Configure{SmallBlind: b.config.SmallBlind, BigBlind: b.config.BigBlind, Ante: b.config.Ante})
	s = mustApply(s, SetPlayers{Players: seats})
	s = mustApply(s, SetDealer{Seat: b.dealer})
	if b.session {
		s = mustApply(s, StartSession{ID: "test-session", At: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)})
	}
	return s
}

func mustApply(s GameState, a Action) GameState {
	next := Apply(s, a)
	if next.LastError != "" {
		panic(fmt.Sprintf("apply %s: %s", a.Type(), next.LastError))
	}
	return next
}
