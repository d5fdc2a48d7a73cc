package history

import (
	"slices"
	"time"

	"github.com/lox/pokertable/internal/game"
)

// SessionRecord is everything persisted about one session
type SessionRecord struct {
	ID            string       `json:"id"`
	StartedAt     time.Time    `json:"startedAt"`
	EndedAt       *time.Time   `json:"endedAt,omitempty"`
	Config        game.Config  `json:"config"`
	Players       []string     `json:"players"`
	InitialStacks []int        `json:"initialStacks"`
	Rebuys        []int        `json:"rebuys"`
	FinalStacks   []int        `json:"finalStacks"`
	Hands         []HandRecord `json:"hands"`
}

// Net returns each seat's result over the session
func (r *SessionRecord) Net() []int {
	net := make([]int, len(r.FinalStacks))
	for i, stack := range r.FinalStacks {
		net[i] = stack
		if i < len(r.InitialStacks) {
			net[i] -= r.InitialStacks[i]
		}
		if i < len(r.Rebuys) {
			net[i] -= r.Rebuys[i]
		}
	}
	return net
}

// HandRecord is one settled hand
type HandRecord struct {
	Number    int          `json:"number"`
	SettledAt time.Time    `json:"settledAt"`
	Dealer    int          `json:"dealer"`
	Street    game.Street  `json:"street"`
	Board     string       `json:"board,omitempty"`
	Seats     []SeatRecord `json:"seats"`
	Pots      []PotRecord  `json:"pots"`
}

// SeatRecord is one seat's part in a hand
type SeatRecord struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Hole      string `json:"hole,omitempty"`
	Folded    bool   `json:"folded,omitempty"`
	Committed int    `json:"committed"`
	Won       int    `json:"won"`
}

// Net is the seat's result for the hand
func (s SeatRecord) Net() int {
	return s.Won - s.Committed
}

// PotRecord is one pot and who took it
type PotRecord struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
	Winners  []int `json:"winners"`
}

// Summary is the listing view of a stored session
type Summary struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Hands     int        `json:"hands"`
	Players   []string   `json:"players"`
}

func (r *SessionRecord) summary() Summary {
	return Summary{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
		Hands:     len(r.Hands),
		Players:   slices.Clone(r.Players),
	}
}

func newSessionRecord(s game.GameState) *SessionRecord {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	return &SessionRecord{
		ID:            s.Session.ID,
		StartedAt:     s.Session.StartedAt,
		Config:        s.Config,
		Players:       names,
		InitialStacks: slices.Clone(s.Session.InitialStacks),
		Rebuys:        slices.Clone(s.Session.Rebuys),
		FinalStacks:   chipCounts(s),
		Hands:         []HandRecord{},
	}
}

// handRecord describes the hand settled between prev (at showdown) and next.
func handRecord(prev, next game.GameState, at time.Time) HandRecord {
	rec := HandRecord{
		Number:    prev.HandNumber + 1,
		SettledAt: at,
		Dealer:    prev.DealerSeat,
		Street:    prev.Street,
		Board:     prev.Board,
	}

	for i, p := range prev.Players {
		if p.Status == game.StatusOut || i >= len(next.Players) {
			continue
		}
		rec.Seats = append(rec.Seats, SeatRecord{
			Seat:      p.Seat,
			Name:      p.Name,
			Hole:      p.Hole,
			Folded:    p.Status == game.StatusFolded,
			Committed: p.TotalCommitted,
			Won:       next.Players[i].Stack - p.Stack,
		})
	}

	for i, pot := range prev.Pots() {
		var winners []int
		if i < len(prev.PotWinners) {
			winners = slices.Clone(prev.PotWinners[i])
		}
		rec.Pots = append(rec.Pots, PotRecord{
			Amount:   pot.Amount,
			Eligible: pot.Eligible,
			Winners:  winners,
		})
	}
	return rec
}

func chipCounts(s game.GameState) []int {
	out := make([]int, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Stack + p.TotalCommitted
	}
	return out
}
