package game

import "github.com/lox/pokertable/poker"

// ShowdownInputFor collects the board, hole cards and pot eligibility of s
// in the shape the evaluator expects.
func ShowdownInputFor(s GameState) poker.ShowdownInput {
	pots := s.Pots()
	in := poker.ShowdownInput{
		Board: s.Board,
		Pots:  make([][]int, len(pots)),
	}
	for i, pot := range pots {
		in.Pots[i] = append([]int{}, pot.Eligible...)
	}
	for _, p := range s.Players {
		if p.Status == StatusOut {
			continue
		}
		in.Holes = append(in.Holes, poker.SeatHole{
			Seat:   p.Seat,
			Cards:  p.Hole,
			Folded: p.Status == StatusFolded,
		})
	}
	return in
}

// SuggestWinners ranks the typed cards and returns per-pot winners ready
// for an ApplyPotWinners action.
func SuggestWinners(s GameState) ([][]int, error) {
	if s.Phase != PhaseShowdown {
		return nil, errNotAtShowdown
	}
	return poker.ComputePotWinners(ShowdownInputFor(s))
}
