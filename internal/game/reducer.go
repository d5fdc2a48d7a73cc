package game

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	errSessionOpen     = errors.New("cannot change the table during an open session")
	errNoOpenSession   = errors.New("no open session")
	errNoHandToSettle  = errors.New("no hand to settle")
	errSessionRunning  = errors.New("session already in progress")
	errSessionIDNeeded = errors.New("session id required")
)

// Apply returns the state that results from applying a to s.
//
// Apply never mutates s and never panics. An illegal action yields a copy of
// s with LastError describing the problem; a legal one clears LastError.
func Apply(s GameState, a Action) GameState {
	next, err := apply(s, a)
	if err != nil {
		out := s.Clone()
		out.LastError = err.Error()
		return out
	}
	next.LastError = ""
	return next
}

func apply(s GameState, a Action) (GameState, error) {
	switch a := a.(type) {
	case Configure:
		return configure(s, a)
	case SetPlayers:
		return setPlayers(s, a)
	case SetDealer:
		return setDealer(s, a)
	case StartSession:
		return startSession(s, a)
	case EndSession:
		return endSession(s, a)
	case Rebuy:
		return rebuy(s, a)
	case StartHand:
		return startHand(s)
	case PlayerAct:
		return playerAct(s, a)
	case SetBoard:
		return setBoard(s, a)
	case SetHole:
		return setHole(s, a)
	case AssignPotWinners:
		return assignPotWinners(s, a)
	case ApplyPotWinners:
		return applyPotWinners(s, a)
	case SettleHand:
		return settleHand(s)
	case CancelHand:
		return cancelHand(s)
	case Rollback:
		return rollback(s), nil
	case AdoptSnapshot:
		return Normalize(a.State), nil
	case Reset:
		return reset(s), nil
	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
}

func requireSetup(s GameState) error {
	if s.Phase != PhaseSetup {
		return errHandInProgress
	}
	return nil
}

func configure(s GameState, a Configure) (GameState, error) {
	if err := requireSetup(s); err != nil {
		return s, err
	}
	if s.Session.Open() {
		return s, errSessionOpen
	}
	if a.SmallBlind < 0 || a.BigBlind < 0 || a.Ante < 0 {
		return s, errors.New("blinds and ante must not be negative")
	}
	if a.BigBlind < a.SmallBlind {
		return s, errors.New("big blind must be at least the small blind")
	}

	n := s.Clone()
	n.Config = Config{SmallBlind: a.SmallBlind, BigBlind: a.BigBlind, Ante: a.Ante}
	return n, nil
}

func setPlayers(s GameState, a SetPlayers) (GameState, error) {
	if err := requireSetup(s); err != nil {
		return s, err
	}
	if s.Session.Open() {
		return s, errSessionOpen
	}
	if len(a.Players) > MaxSeats {
		return s, fmt.Errorf("at most %d players", MaxSeats)
	}

	players := make([]Player, len(a.Players))
	for i, spec := range a.Players {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return s, fmt.Errorf("seat %d needs a name", i)
		}
		if spec.Stack < 0 {
			return s, fmt.Errorf("seat %d stack must not be negative", i)
		}
		players[i] = Player{
			Seat:   i,
			Name:   name,
			Stack:  spec.Stack,
			Status: statusForStack(spec.Stack),
		}
	}

	n := s.Clone()
	n.Players = players
	if !n.validSeat(n.DealerSeat) {
		n.DealerSeat = 0
	}
	n.ActionSeat = NoSeat
	n.Rollback.Clear()
	return n, nil
}

func setDealer(s GameState, a SetDealer) (GameState, error) {
	if err := requireSetup(s); err != nil {
		return s, err
	}
	if !s.validSeat(a.Seat) {
		return s, fmt.Errorf("invalid seat %d", a.Seat)
	}
	n := s.Clone()
	n.DealerSeat = a.Seat
	return n, nil
}

func startSession(s GameState, a StartSession) (GameState, error) {
	if err := requireSetup(s); err != nil {
		return s, err
	}
	if s.Session.Open() {
		return s, errSessionRunning
	}
	if strings.TrimSpace(a.ID) == "" {
		return s, errSessionIDNeeded
	}

	n := s.Clone()
	stacks := make([]int, len(n.Players))
	for i, p := range n.Players {
		stacks[i] = p.Stack
	}
	n.Session = &Session{
		ID:            a.ID,
		StartedAt:     a.At,
		InitialStacks: stacks,
		Rebuys:        make([]int, len(n.Players)),
	}
	return n, nil
}

func endSession(s GameState, a EndSession) (GameState, error) {
	if s.Phase != PhaseSetup {
		return s, errors.New("finish or cancel the hand before ending the session")
	}
	if s.Session == nil {
		return s, errNoOpenSession
	}
	if s.Session.Ended() {
		return s, errors.New("session already ended")
	}

	n := s.Clone()
	ended := a.At
	if ended.Before(n.Session.StartedAt) {
		ended = n.Session.StartedAt
	}
	n.Session.EndedAt = &ended
	return n, nil
}

func rebuy(s GameState, a Rebuy) (GameState, error) {
	if err := requireSetup(s); err != nil {
		return s, err
	}
	if !s.validSeat(a.Seat) {
		return s, fmt.Errorf("invalid seat %d", a.Seat)
	}
	if a.Amount <= 0 {
		return s, errors.New("rebuy amount must be positive")
	}

	n := s.Clone()
	p := &n.Players[a.Seat]
	p.Stack += a.Amount
	p.Status = StatusActive
	if n.Session.Open() {
		for len(n.Session.Rebuys) <= a.Seat {
			n.Session.Rebuys = append(n.Session.Rebuys, 0)
		}
		n.Session.Rebuys[a.Seat] += a.Amount
	}
	return n, nil
}

func requireLiveHand(s GameState) error {
	if s.Phase != PhaseHand && s.Phase != PhaseShowdown {
		return errNoHand
	}
	return nil
}

func setBoard(s GameState, a SetBoard) (GameState, error) {
	if err := requireLiveHand(s); err != nil {
		return s, err
	}
	n := s.Clone()
	n.Board = strings.TrimSpace(a.Text)
	return n, nil
}

func setHole(s GameState, a SetHole) (GameState, error) {
	if err := requireLiveHand(s); err != nil {
		return s, err
	}
	if !s.validSeat(a.Seat) {
		return s, fmt.Errorf("invalid seat %d", a.Seat)
	}
	if s.Players[a.Seat].Status == StatusOut {
		return s, fmt.Errorf("seat %d is not in the hand", a.Seat)
	}
	n := s.Clone()
	n.Players[a.Seat].Hole = strings.TrimSpace(a.Text)
	return n, nil
}

// checkWinners dedupes and sorts seats and confirms each may win the pot.
func checkWinners(pot SidePot, index int, seats []int) ([]int, error) {
	out := make([]int, 0, len(seats))
	for _, seat := range seats {
		if !slices.Contains(pot.Eligible, seat) {
			return nil, fmt.Errorf("seat %d is not eligible for pot %d", seat, index)
		}
		if !slices.Contains(out, seat) {
			out = append(out, seat)
		}
	}
	sort.Ints(out)
	return out, nil
}

func assignPotWinners(s GameState, a AssignPotWinners) (GameState, error) {
	if s.Phase != PhaseShowdown {
		return s, errNotAtShowdown
	}
	pots := s.Pots()
	if a.Pot < 0 || a.Pot >= len(pots) {
		return s, fmt.Errorf("invalid pot %d", a.Pot)
	}
	seats, err := checkWinners(pots[a.Pot], a.Pot, a.Seats)
	if err != nil {
		return s, err
	}

	n := s.Clone()
	n.PotWinners = autoWinners(pots, n.PotWinners)
	if len(pots[a.Pot].Eligible) > 1 {
		n.PotWinners[a.Pot] = seats
	}
	return n, nil
}

func applyPotWinners(s GameState, a ApplyPotWinners) (GameState, error) {
	if s.Phase != PhaseShowdown {
		return s, errNotAtShowdown
	}
	pots := s.Pots()
	if len(a.Winners) != len(pots) {
		return s, fmt.Errorf("expected winners for %d pots, got %d", len(pots), len(a.Winners))
	}

	winners := make([][]int, len(pots))
	for i, pot := range pots {
		seats, err := checkWinners(pot, i, a.Winners[i])
		if err != nil {
			return s, err
		}
		winners[i] = seats
	}

	n := s.Clone()
	n.PotWinners = autoWinners(pots, winners)
	return n, nil
}

func settleHand(s GameState) (GameState, error) {
	if s.Phase != PhaseShowdown {
		return s, errNoHandToSettle
	}

	pots := s.Pots()
	winners := autoWinners(pots, s.PotWinners)
	for i, pot := range pots {
		if len(pot.Eligible) > 1 && len(eligibleWinners(pot, winners[i])) == 0 {
			return s, fmt.Errorf("pot %d has no winner assigned", i)
		}
	}

	n := s.Clone()
	payouts := DistributePots(pots, winners, n.DealerSeat, len(n.Players))
	for i := range n.Players {
		n.Players[i].Stack += payouts[i]
	}
	n.finishHand()

	n.HandNumber++
	if n.Session.Open() {
		n.Session.HandsPlayed++
	}
	if next := n.seatAfter(n.DealerSeat, func(p Player) bool { return p.Status != StatusOut }); next != NoSeat {
		n.DealerSeat = next
	}
	return n, nil
}

func cancelHand(s GameState) (GameState, error) {
	if err := requireLiveHand(s); err != nil {
		return s, err
	}
	n := s.Clone()
	for i := range n.Players {
		n.Players[i].Stack += n.Players[i].TotalCommitted
	}
	n.finishHand()
	return n, nil
}

// finishHand clears per-hand state once chips have been returned to stacks.
func (s *GameState) finishHand() {
	for i := range s.Players {
		p := &s.Players[i]
		p.StreetBet = 0
		p.TotalCommitted = 0
		p.Acted = false
		p.Hole = ""
		p.Status = statusForStack(p.Stack)
	}
	s.Phase = PhaseSetup
	s.Street = Preflop
	s.Board = ""
	s.PotWinners = nil
	s.CurrentBet = 0
	s.MinRaise = 0
	s.ActionSeat = NoSeat
	s.Rollback.Clear()
}

func rollback(s GameState) GameState {
	if s.Rollback.Len() == 0 {
		return s.Clone()
	}
	n := s.Clone()
	point, _ := n.Rollback.Pop()
	point.restore(&n)
	return n
}

func reset(s GameState) GameState {
	n := NewState()
	n.Config = s.Config
	n.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		stack := p.Stack + p.TotalCommitted
		n.Players[i] = Player{
			Seat:   i,
			Name:   p.Name,
			Stack:  stack,
			Status: statusForStack(stack),
		}
	}
	return n
}
