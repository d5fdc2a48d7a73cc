package poker

import (
	"errors"
	"fmt"
)

// SeatHole is one seat's hole card text as typed at the table.
type SeatHole struct {
	Seat   int
	Cards  string
	Folded bool
}

// ShowdownInput is everything needed to pick pot winners from card text.
// Pots lists the eligible seats of each pot, in pot order.
type ShowdownInput struct {
	Board string
	Holes []SeatHole
	Pots  [][]int
}

// SeatRank is the evaluated hand for one seat.
type SeatRank struct {
	Seat int
	Rank HandRank
}

var errNoComparableHands = errors.New("no comparable hands")

// RankSeats validates the board and every live hole and ranks each live seat.
func RankSeats(board string, holes []SeatHole) (map[int]HandRank, error) {
	boardCards, err := ParseCardsText(board)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	if len(boardCards) != 5 {
		return nil, fmt.Errorf("board must have exactly 5 cards, got %d", len(boardCards))
	}

	used := make(map[Card]string, 5+2*len(holes))
	for _, c := range boardCards {
		used[c] = "board"
	}

	ranks := make(map[int]HandRank, len(holes))
	for _, h := range holes {
		if h.Folded {
			continue
		}
		cards, err := ParseCardsText(h.Cards)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", h.Seat, err)
		}
		if len(cards) != 2 {
			return nil, fmt.Errorf("seat %d: hole must have exactly 2 cards, got %d", h.Seat, len(cards))
		}
		for _, c := range cards {
			if owner, dup := used[c]; dup {
				return nil, fmt.Errorf("seat %d: duplicate card %q (also in %s)", h.Seat, c.String(), owner)
			}
			used[c] = fmt.Sprintf("seat %d", h.Seat)
		}

		rank, err := EvaluateBestOf7(append(cards, boardCards...))
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", h.Seat, err)
		}
		ranks[h.Seat] = rank
	}
	return ranks, nil
}

// ComputePotWinners picks the winners of every pot independently. A pot with a
// single eligible seat goes to that seat without needing its cards.
func ComputePotWinners(in ShowdownInput) ([][]int, error) {
	ranks, err := RankSeats(in.Board, in.Holes)
	if err != nil {
		return nil, err
	}

	winners := make([][]int, len(in.Pots))
	for i, eligible := range in.Pots {
		if len(eligible) == 1 {
			winners[i] = []int{eligible[0]}
			continue
		}

		var best HandRank
		var seats []int
		for _, seat := range eligible {
			rank, ok := ranks[seat]
			if !ok {
				continue
			}
			switch cmp := CompareHands(rank, best); {
			case seats == nil || cmp > 0:
				best, seats = rank, []int{seat}
			case cmp == 0:
				seats = append(seats, seat)
			}
		}
		if len(seats) == 0 {
			return nil, fmt.Errorf("pot %d: %w", i, errNoComparableHands)
		}
		winners[i] = seats
	}
	return winners, nil
}
