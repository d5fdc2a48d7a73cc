package game

import (
	"slices"
	"sort"
)

// SidePot represents a pot (main or side)
type SidePot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // Seats that can win this pot, ascending
}

// ComputeSidePots splits everything committed this hand into tiered pots.
//
// Each distinct contribution level forms a tier worth (level - previous level)
// times the number of players who reached it. A tier nobody still in the hand
// reached is folded into the pot below it, or carried up when it is the lowest
// tier, so the pots always sum to the total committed.
func ComputeSidePots(players []Player) []SidePot {
	levels := contributionLevels(players)

	var pots []SidePot
	carry, prev := 0, 0
	for _, level := range levels {
		contributors := 0
		var eligible []int
		for _, p := range players {
			if p.TotalCommitted < level {
				continue
			}
			contributors++
			if p.InHand() {
				eligible = append(eligible, p.Seat)
			}
		}

		amount := (level - prev) * contributors
		prev = level
		if amount == 0 {
			continue
		}

		if len(eligible) == 0 {
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += amount
			} else {
				carry += amount
			}
			continue
		}

		sort.Ints(eligible)
		pots = append(pots, SidePot{Amount: amount + carry, Eligible: eligible})
		carry = 0
	}

	// Everyone who committed chips has folded; nothing can claim them.
	if carry > 0 {
		pots = append(pots, SidePot{Amount: carry, Eligible: []int{}})
	}
	return pots
}

func contributionLevels(players []Player) []int {
	seen := make(map[int]bool)
	var levels []int
	for _, p := range players {
		if p.TotalCommitted > 0 && !seen[p.TotalCommitted] {
			seen[p.TotalCommitted] = true
			levels = append(levels, p.TotalCommitted)
		}
	}
	sort.Ints(levels)
	return levels
}

// DistributePots pays out each pot and returns the chips won per seat.
//
// A pot with a single eligible seat goes to that seat. Otherwise the declared
// winners who are eligible share it evenly, and odd chips go one at a time to
// those winners in clockwise order starting left of the dealer. A pot with no
// eligible winner pays nothing.
func DistributePots(pots []SidePot, winners [][]int, dealerSeat, totalSeats int) []int {
	payouts := make([]int, max(totalSeats, 0))
	if totalSeats <= 0 {
		return payouts
	}

	for i, pot := range pots {
		var declared []int
		if i < len(winners) {
			declared = winners[i]
		}
		seats := eligibleWinners(pot, declared)
		if len(seats) == 0 || pot.Amount <= 0 {
			continue
		}
		orderFromDealer(seats, dealerSeat, totalSeats)

		share := pot.Amount / len(seats)
		remainder := pot.Amount % len(seats)
		for j, seat := range seats {
			if seat < 0 || seat >= totalSeats {
				continue
			}
			payouts[seat] += share
			if j < remainder {
				payouts[seat]++
			}
		}
	}
	return payouts
}

// eligibleWinners returns the declared winners that may take the pot.
func eligibleWinners(pot SidePot, declared []int) []int {
	if len(pot.Eligible) == 1 {
		return []int{pot.Eligible[0]}
	}
	var seats []int
	for _, seat := range declared {
		if slices.Contains(pot.Eligible, seat) && !slices.Contains(seats, seat) {
			seats = append(seats, seat)
		}
	}
	return seats
}

// orderFromDealer sorts seats clockwise starting at the seat left of the dealer.
func orderFromDealer(seats []int, dealerSeat, totalSeats int) {
	distance := func(seat int) int {
		return ((seat-dealerSeat-1)%totalSeats + totalSeats) % totalSeats
	}
	sort.Slice(seats, func(a, b int) bool {
		return distance(seats[a]) < distance(seats[b])
	})
}
