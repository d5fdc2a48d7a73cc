package game

import (
	"encoding/json"
	"fmt"
	"slices"
)

// legacySnapshot is the version 0 layout: one winners list shared by every
// pot and no per-pot assignments or rollback history.
type legacySnapshot struct {
	GameState
	Winners []int `json:"winners"`
}

// DecodeSnapshot parses a serialized GameState of any supported version and
// migrates it to the current one.
func DecodeSnapshot(raw []byte) (GameState, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return GameState{}, fmt.Errorf("decode snapshot: %w", err)
	}

	switch probe.Version {
	case 0:
		var legacy legacySnapshot
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return GameState{}, fmt.Errorf("decode v0 snapshot: %w", err)
		}
		return migrateV0(legacy), nil
	case SnapshotVersion:
		var s GameState
		if err := json.Unmarshal(raw, &s); err != nil {
			return GameState{}, fmt.Errorf("decode snapshot: %w", err)
		}
		return Normalize(s), nil
	default:
		return GameState{}, fmt.Errorf("unsupported snapshot version %d", probe.Version)
	}
}

func migrateV0(legacy legacySnapshot) GameState {
	s := legacy.GameState
	s.Rollback.Clear()
	s.PotWinners = nil
	s = Normalize(s)

	if s.Phase == PhaseShowdown && len(legacy.Winners) > 0 {
		pots := s.Pots()
		winners := make([][]int, len(pots))
		for i, pot := range pots {
			for _, seat := range legacy.Winners {
				if slices.Contains(pot.Eligible, seat) && !slices.Contains(winners[i], seat) {
					winners[i] = append(winners[i], seat)
				}
			}
			slices.Sort(winners[i])
		}
		s.PotWinners = autoWinners(pots, winners)
	}
	return s
}

// Normalize fills fields a snapshot may omit and repairs values that would
// otherwise leave the state inconsistent. The result shares no memory with s.
func Normalize(s GameState) GameState {
	n := s.Clone()
	n.Version = SnapshotVersion
	n.LastError = s.LastError

	if n.Players == nil {
		n.Players = []Player{}
	}
	for i := range n.Players {
		p := &n.Players[i]
		p.Seat = i
		p.Stack = max(p.Stack, 0)
		p.StreetBet = max(p.StreetBet, 0)
		p.TotalCommitted = max(p.TotalCommitted, p.StreetBet)
		switch p.Status {
		case StatusActive, StatusFolded, StatusAllIn, StatusOut:
		default:
			p.Status = statusForStack(p.Stack)
		}
	}

	switch n.Phase {
	case PhaseHand, PhaseShowdown:
	default:
		n.Phase = PhaseSetup
	}
	switch n.Street {
	case Preflop, Flop, Turn, River:
	default:
		n.Street = Preflop
	}

	if !n.validSeat(n.DealerSeat) {
		n.DealerSeat = 0
	}
	if n.Phase != PhaseHand || !n.validSeat(n.ActionSeat) {
		n.ActionSeat = NoSeat
	}
	if n.Phase == PhaseHand && n.MinRaise <= 0 {
		n.MinRaise = n.Config.minRaise()
	}
	if n.Phase == PhaseHand && (n.ActionSeat == NoSeat || !needsAction(n.Players[n.ActionSeat], n.CurrentBet)) {
		n.repairActionSeat()
	}

	switch n.Phase {
	case PhaseShowdown:
		n.PotWinners = autoWinners(n.Pots(), n.PotWinners)
	case PhaseSetup:
		n.PotWinners = nil
	}

	if n.Session != nil {
		for len(n.Session.InitialStacks) < len(n.Players) {
			n.Session.InitialStacks = append(n.Session.InitialStacks, 0)
		}
		for len(n.Session.Rebuys) < len(n.Players) {
			n.Session.Rebuys = append(n.Session.Rebuys, 0)
		}
	}
	return n
}

// repairActionSeat hands action to the seat that should be deciding when a
// snapshot names none, or names one that cannot act. Preflop the scan starts
// after the big blind, later streets after the dealer. A hand nobody can
// continue moves on to showdown.
func (s *GameState) repairActionSeat() {
	s.ActionSeat = NoSeat
	from := s.DealerSeat
	if s.Street == Preflop {
		seated := s.count(func(p Player) bool { return p.Status != StatusOut })
		_, from = s.blindSeats(seated == 2)
	}
	s.advanceAction(from)
}
