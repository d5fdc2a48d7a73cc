package game

import "slices"

const (
	// SnapshotVersion is the current shape of a serialized GameState.
	SnapshotVersion = 1

	// MaxSeats is the largest table SetPlayers accepts.
	MaxSeats = 10

	// NoSeat marks an unset seat index.
	NoSeat = -1
)

// Phase is the table's position in the hand lifecycle
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseHand     Phase = "hand"
	PhaseShowdown Phase = "showdown"
)

// Street represents the betting round
type Street string

const (
	Preflop Street = "preflop"
	Flop    Street = "flop"
	Turn    Street = "turn"
	River   Street = "river"
)

func (s Street) next() Street {
	switch s {
	case Preflop:
		return Flop
	case Flop:
		return Turn
	default:
		return River
	}
}

// Config holds the table stakes
type Config struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	Ante       int `json:"ante"`
}

// DefaultConfig returns 1/2 blinds with no ante
func DefaultConfig() Config {
	return Config{SmallBlind: 1, BigBlind: 2}
}

func (c Config) minRaise() int {
	return max(c.BigBlind, 1)
}

// GameState is a complete, self-describing snapshot of the table. Callers
// treat it as immutable and replace it with the output of Apply.
type GameState struct {
	Version    int           `json:"version"`
	Config     Config        `json:"config"`
	Phase      Phase         `json:"phase"`
	Street     Street        `json:"street"`
	Players    []Player      `json:"players"`
	DealerSeat int           `json:"dealerSeat"`
	ActionSeat int           `json:"actionSeat"`
	CurrentBet int           `json:"currentBet"`
	MinRaise   int           `json:"minRaise"`
	Board      string        `json:"board"`
	PotWinners [][]int       `json:"potWinners"`
	Rollback   RollbackStack `json:"rollback"`
	Session    *Session      `json:"session,omitempty"`
	HandNumber int           `json:"handNumber"`
	LastError  string        `json:"lastError,omitempty"`
}

// NewState returns an empty table in setup with default stakes
func NewState() GameState {
	return GameState{
		Version:    SnapshotVersion,
		Config:     DefaultConfig(),
		Phase:      PhaseSetup,
		Street:     Preflop,
		Players:    []Player{},
		ActionSeat: NoSeat,
	}
}

// Clone returns a deep copy that shares no mutable memory with s.
// Rollback points are immutable once pushed and are shared.
func (s GameState) Clone() GameState {
	out := s
	out.Players = slices.Clone(s.Players)
	out.PotWinners = cloneWinners(s.PotWinners)
	out.Session = s.Session.clone()
	return out
}

// Pots returns the side pots implied by the current commitments
func (s GameState) Pots() []SidePot {
	return ComputeSidePots(s.Players)
}

// TotalChips is every chip on the table, behind or committed
func (s GameState) TotalChips() int {
	total := 0
	for _, p := range s.Players {
		total += p.Stack + p.TotalCommitted
	}
	return total
}

// PotTotal is the sum of all commitments this hand
func (s GameState) PotTotal() int {
	total := 0
	for _, p := range s.Players {
		total += p.TotalCommitted
	}
	return total
}

func (s GameState) validSeat(seat int) bool {
	return seat >= 0 && seat < len(s.Players)
}

// seatAfter scans clockwise from the seat after from, ending on from itself.
func (s GameState) seatAfter(from int, pred func(Player) bool) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		seat := ((from+i)%n + n) % n
		if pred(s.Players[seat]) {
			return seat
		}
	}
	return NoSeat
}

func (s GameState) count(pred func(Player) bool) int {
	n := 0
	for _, p := range s.Players {
		if pred(p) {
			n++
		}
	}
	return n
}

func cloneWinners(w [][]int) [][]int {
	if w == nil {
		return nil
	}
	out := make([][]int, len(w))
	for i, seats := range w {
		out[i] = slices.Clone(seats)
	}
	return out
}
