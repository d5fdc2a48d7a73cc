package game

import (
	"errors"
	"fmt"
)

var (
	errNoHand            = errors.New("no hand in progress")
	errHandInProgress    = errors.New("hand already in progress")
	errNotEnoughPlayers  = errors.New("not enough players")
	errSessionEnded      = errors.New("session has ended")
	errNotAtShowdown     = errors.New("hand is not at showdown")
	errBetMustExceedZero = errors.New("bet must be positive")
)

// startHand posts forced bets and hands action to the first seat after the
// big blind.
func startHand(s GameState) (GameState, error) {
	if s.Session.Ended() {
		return s, errSessionEnded
	}
	if s.Phase != PhaseSetup {
		return s, errHandInProgress
	}

	n := s.Clone()
	for i := range n.Players {
		p := &n.Players[i]
		p.Seat = i
		p.StreetBet = 0
		p.TotalCommitted = 0
		p.Acted = false
		p.Hole = ""
		p.Stack = max(p.Stack, 0)
		p.Status = statusForStack(p.Stack)
	}

	active := n.count(func(p Player) bool { return p.Status == StatusActive })
	if active < 2 {
		return s, errNotEnoughPlayers
	}

	if !n.validSeat(n.DealerSeat) || n.Players[n.DealerSeat].Status != StatusActive {
		n.DealerSeat = n.seatAfter(NoSeat, func(p Player) bool { return p.Status == StatusActive })
	}

	n.Phase = PhaseHand
	n.Street = Preflop
	n.Board = ""
	n.PotWinners = nil
	n.Rollback.Clear()
	n.ActionSeat = NoSeat

	if n.Config.Ante > 0 {
		for i := range n.Players {
			if n.Players[i].Status == StatusActive {
				n.payAnte(i, n.Config.Ante)
			}
		}
	}

	sb, bb := n.blindSeats(active == 2)
	n.pay(sb, n.Config.SmallBlind)
	n.pay(bb, n.Config.BigBlind)

	n.CurrentBet = n.Config.BigBlind
	n.MinRaise = n.Config.minRaise()

	n.advanceAction(bb)
	return n, nil
}

// playerAct validates and applies a betting decision, recording the prior
// state for rollback.
func playerAct(s GameState, a PlayerAct) (GameState, error) {
	if s.Phase != PhaseHand {
		return s, errNoHand
	}
	if !s.validSeat(a.Seat) {
		return s, fmt.Errorf("invalid seat %d", a.Seat)
	}
	if a.Seat != s.ActionSeat {
		return s, fmt.Errorf("not seat %d's turn, action is on seat %d", a.Seat, s.ActionSeat)
	}
	if st := s.Players[a.Seat].Status; st != StatusActive {
		return s, fmt.Errorf("seat %d cannot act while %s", a.Seat, st)
	}

	n := s.Clone()
	if err := n.act(a.Seat, a.Move, a.Amount); err != nil {
		return s, err
	}
	n.Rollback.Push(capturePoint(s))
	n.advanceAction(a.Seat)
	return n, nil
}

func (s *GameState) act(seat int, move Move, amount int) error {
	p := &s.Players[seat]
	prevBet := s.CurrentBet

	switch move {
	case MoveCheck:
		if p.StreetBet != s.CurrentBet {
			return fmt.Errorf("cannot check, must call %d", s.CurrentBet-p.StreetBet)
		}
	case MoveCall:
		s.pay(seat, max(s.CurrentBet-p.StreetBet, 0))
	case MoveFold:
		p.Status = StatusFolded
	case MoveAllIn:
		s.pay(seat, p.Stack)
	case MoveBetTo:
		maxTo := p.StreetBet + p.Stack
		target := min(max(amount, 0), maxTo)
		if target <= s.CurrentBet {
			if s.CurrentBet == 0 {
				return errBetMustExceedZero
			}
			return fmt.Errorf("bet must exceed current bet of %d", s.CurrentBet)
		}
		if target-s.CurrentBet < s.MinRaise && target < maxTo {
			return fmt.Errorf("raise too small, minimum is %d", s.CurrentBet+s.MinRaise)
		}
		s.pay(seat, target-p.StreetBet)
	default:
		return fmt.Errorf("unknown move %q", move)
	}

	p.Acted = true

	if p.StreetBet > prevBet {
		if inc := p.StreetBet - prevBet; inc >= s.MinRaise {
			s.MinRaise = inc
		}
		s.CurrentBet = p.StreetBet
		for i := range s.Players {
			if i != seat && s.Players[i].Status == StatusActive {
				s.Players[i].Acted = false
			}
		}
	}
	return nil
}

// pay moves chips from a stack into the current street, capped at the stack.
func (s *GameState) pay(seat, amount int) {
	p := &s.Players[seat]
	amount = min(amount, p.Stack)
	if amount <= 0 {
		return
	}
	p.Stack -= amount
	p.StreetBet += amount
	p.TotalCommitted += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
}

// payAnte commits chips without counting them toward the street bet.
func (s *GameState) payAnte(seat, amount int) {
	p := &s.Players[seat]
	amount = min(amount, p.Stack)
	if amount <= 0 {
		return
	}
	p.Stack -= amount
	p.TotalCommitted += amount
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
}

func needsAction(p Player, currentBet int) bool {
	return p.CanAct() && (!p.Acted || p.StreetBet != currentBet)
}

// blindSeats returns the small and big blind seats for the current dealer.
// Heads up, the dealer posts the small blind.
func (s GameState) blindSeats(headsUp bool) (sb, bb int) {
	seated := func(p Player) bool { return p.Status != StatusOut }
	if headsUp {
		sb = s.DealerSeat
	} else {
		sb = s.seatAfter(s.DealerSeat, seated)
	}
	return sb, s.seatAfter(sb, seated)
}

// advanceAction moves play on after the given seat: to the next seat that
// owes a decision, to the next street, or to showdown.
func (s *GameState) advanceAction(from int) {
	if s.count(Player.InHand) <= 1 {
		s.enterShowdown()
		return
	}

	pending := func(p Player) bool { return needsAction(p, s.CurrentBet) }
	if next := s.seatAfter(from, pending); next != NoSeat {
		s.ActionSeat = next
		return
	}

	for {
		if s.Street == River || s.count(Player.CanAct) <= 1 {
			s.enterShowdown()
			return
		}
		s.advanceStreet()
		if next := s.seatAfter(s.DealerSeat, pending); next != NoSeat {
			s.ActionSeat = next
			return
		}
	}
}

func (s *GameState) advanceStreet() {
	s.Street = s.Street.next()
	for i := range s.Players {
		p := &s.Players[i]
		p.StreetBet = 0
		p.Acted = p.Status != StatusActive
	}
	s.CurrentBet = 0
	s.MinRaise = s.Config.minRaise()
	s.ActionSeat = NoSeat
}

func (s *GameState) enterShowdown() {
	s.Phase = PhaseShowdown
	s.ActionSeat = NoSeat
	s.PotWinners = autoWinners(s.Pots(), nil)
}

// autoWinners sizes winners to the pots, keeping existing assignments and
// filling any pot with a single eligible seat.
func autoWinners(pots []SidePot, existing [][]int) [][]int {
	out := make([][]int, len(pots))
	for i, pot := range pots {
		switch {
		case len(pot.Eligible) == 1:
			out[i] = []int{pot.Eligible[0]}
		case i < len(existing) && existing[i] != nil:
			out[i] = append([]int{}, existing[i]...)
		default:
			out[i] = []int{}
		}
	}
	return out
}

// ToCall returns the chips the seat must add to match the current bet
func (s GameState) ToCall(seat int) int {
	if !s.validSeat(seat) {
		return 0
	}
	return max(s.CurrentBet-s.Players[seat].StreetBet, 0)
}

// MinBetTo returns the smallest legal bet_to amount for the seat, which is
// the whole stack when a full raise is not affordable.
func (s GameState) MinBetTo(seat int) int {
	if !s.validSeat(seat) {
		return 0
	}
	p := s.Players[seat]
	return min(s.CurrentBet+s.MinRaise, p.StreetBet+p.Stack)
}

// LegalMoves returns the moves the seat may make right now
func (s GameState) LegalMoves(seat int) []Move {
	if s.Phase != PhaseHand || seat != s.ActionSeat || !s.validSeat(seat) {
		return nil
	}
	p := s.Players[seat]
	if p.Status != StatusActive {
		return nil
	}

	moves := []Move{MoveFold}
	if p.StreetBet == s.CurrentBet {
		moves = append(moves, MoveCheck)
	} else {
		moves = append(moves, MoveCall)
	}
	if p.StreetBet+p.Stack > s.CurrentBet {
		moves = append(moves, MoveBetTo)
	}
	if p.Stack > 0 {
		moves = append(moves, MoveAllIn)
	}
	return moves
}
