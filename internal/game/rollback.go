package game

import "encoding/json"

// RollbackDepth is the number of player actions that can be undone.
const RollbackDepth = 50

// PlayerSnapshot holds the per-seat fields a player action can change
type PlayerSnapshot struct {
	Stack          int    `json:"stack"`
	StreetBet      int    `json:"streetBet"`
	TotalCommitted int    `json:"totalCommitted"`
	Status         Status `json:"status"`
	Acted          bool   `json:"acted"`
	Hole           string `json:"hole,omitempty"`
}

// RollbackPoint captures the state immediately before a player action
type RollbackPoint struct {
	Players    []PlayerSnapshot `json:"players"`
	Phase      Phase            `json:"phase"`
	Street     Street           `json:"street"`
	CurrentBet int              `json:"currentBet"`
	MinRaise   int              `json:"minRaise"`
	ActionSeat int              `json:"actionSeat"`
	DealerSeat int              `json:"dealerSeat"`
	Board      string           `json:"board"`
	PotWinners [][]int          `json:"potWinners"`
}

func capturePoint(s GameState) RollbackPoint {
	players := make([]PlayerSnapshot, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerSnapshot{
			Stack:          p.Stack,
			StreetBet:      p.StreetBet,
			TotalCommitted: p.TotalCommitted,
			Status:         p.Status,
			Acted:          p.Acted,
			Hole:           p.Hole,
		}
	}
	return RollbackPoint{
		Players:    players,
		Phase:      s.Phase,
		Street:     s.Street,
		CurrentBet: s.CurrentBet,
		MinRaise:   s.MinRaise,
		ActionSeat: s.ActionSeat,
		DealerSeat: s.DealerSeat,
		Board:      s.Board,
		PotWinners: cloneWinners(s.PotWinners),
	}
}

func (p RollbackPoint) restore(s *GameState) {
	for i, snap := range p.Players {
		if i >= len(s.Players) {
			break
		}
		pl := &s.Players[i]
		pl.Stack = snap.Stack
		pl.StreetBet = snap.StreetBet
		pl.TotalCommitted = snap.TotalCommitted
		pl.Status = snap.Status
		pl.Acted = snap.Acted
		pl.Hole = snap.Hole
	}
	s.Phase = p.Phase
	s.Street = p.Street
	s.CurrentBet = p.CurrentBet
	s.MinRaise = p.MinRaise
	s.ActionSeat = p.ActionSeat
	s.DealerSeat = p.DealerSeat
	s.Board = p.Board
	s.PotWinners = cloneWinners(p.PotWinners)
}

// RollbackStack is a fixed-capacity LIFO of rollback points. When full, a
// push evicts the oldest point. The zero value is an empty stack.
//
// The buffer is an array so copying a GameState copies the stack; pushed
// points are never modified and may be shared between copies.
type RollbackStack struct {
	ring  [RollbackDepth]RollbackPoint
	start int
	size  int
}

// Len returns the number of points held
func (r *RollbackStack) Len() int {
	return r.size
}

// Push adds a point, dropping the oldest when the stack is full
func (r *RollbackStack) Push(p RollbackPoint) {
	if r.size == RollbackDepth {
		r.ring[r.start] = RollbackPoint{}
		r.start = (r.start + 1) % RollbackDepth
		r.size--
	}
	r.ring[(r.start+r.size)%RollbackDepth] = p
	r.size++
}

// Pop removes and returns the newest point
func (r *RollbackStack) Pop() (RollbackPoint, bool) {
	if r.size == 0 {
		return RollbackPoint{}, false
	}
	idx := (r.start + r.size - 1) % RollbackDepth
	p := r.ring[idx]
	r.ring[idx] = RollbackPoint{}
	r.size--
	return p, true
}

// Points returns the held points, oldest first
func (r *RollbackStack) Points() []RollbackPoint {
	out := make([]RollbackPoint, r.size)
	for i := range r.size {
		out[i] = r.ring[(r.start+i)%RollbackDepth]
	}
	return out
}

// Clear empties the stack
func (r *RollbackStack) Clear() {
	*r = RollbackStack{}
}

// MarshalJSON encodes the stack as its list of points, oldest first.
func (r RollbackStack) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Points())
}

// UnmarshalJSON keeps the newest RollbackDepth points of the list.
func (r *RollbackStack) UnmarshalJSON(data []byte) error {
	var points []RollbackPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	r.Clear()
	if len(points) > RollbackDepth {
		points = points[len(points)-RollbackDepth:]
	}
	for _, p := range points {
		r.Push(p)
	}
	return nil
}
