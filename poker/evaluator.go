package poker

import (
	"fmt"
	"slices"
	"strings"
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank ranks a five card hand. Tiebreak values are ordered most
// significant first, e.g. two pair is [high pair, low pair, kicker].
type HandRank struct {
	Category HandType `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
}

// String returns a short description such as "Straight (5 high)".
func (hr HandRank) String() string {
	if len(hr.Tiebreak) == 0 {
		return hr.Category.String()
	}
	names := make([]string, len(hr.Tiebreak))
	for i, v := range hr.Tiebreak {
		names[i] = Rank(v).String()
	}
	switch hr.Category {
	case Straight, StraightFlush:
		return fmt.Sprintf("%s (%s high)", hr.Category, names[0])
	default:
		return fmt.Sprintf("%s (%s)", hr.Category, strings.Join(names, " "))
	}
}

// CompareHands returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func CompareHands(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	n := max(len(a.Tiebreak), len(b.Tiebreak))
	for i := 0; i < n; i++ {
		av, bv := tiebreakAt(a, i), tiebreakAt(b, i)
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

func tiebreakAt(h HandRank, i int) int {
	if i < len(h.Tiebreak) {
		return h.Tiebreak[i]
	}
	return 0
}

// Evaluate5 ranks exactly five distinct cards.
func Evaluate5(cards []Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, fmt.Errorf("evaluate5: need 5 cards, got %d", len(cards))
	}
	if err := checkDistinct(cards); err != nil {
		return HandRank{}, err
	}
	return rank5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
}

// EvaluateBestOf7 returns the best five card rank among all 21 subsets of seven cards.
func EvaluateBestOf7(cards []Card) (HandRank, error) {
	if len(cards) != 7 {
		return HandRank{}, fmt.Errorf("evaluate7: need 7 cards, got %d", len(cards))
	}
	if err := checkDistinct(cards); err != nil {
		return HandRank{}, err
	}

	var best HandRank
	found := false
	for a := 0; a < 7; a++ {
		for b := a + 1; b < 7; b++ {
			for c := b + 1; c < 7; c++ {
				for d := c + 1; d < 7; d++ {
					for e := d + 1; e < 7; e++ {
						h := rank5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if !found || CompareHands(h, best) > 0 {
							best, found = h, true
						}
					}
				}
			}
		}
	}
	return best, nil
}

func checkDistinct(cards []Card) error {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return fmt.Errorf("duplicate card %q", c.String())
		}
		seen[c] = true
	}
	return nil
}

// Category ladder: 8 straight flush, 7 quads, 6 full house, 5 flush,
// 4 straight, 3 trips, 2 two pair, 1 pair, 0 high card.
func rank5(c1, c2, c3, c4, c5 Card) HandRank {
	cards := [5]Card{c1, c2, c3, c4, c5}

	var counts [15]int
	ranks := make([]int, 0, 5)
	flush := true
	for _, c := range cards {
		counts[c.Rank]++
		ranks = append(ranks, int(c.Rank))
		if c.Suit != c1.Suit {
			flush = false
		}
	}
	slices.SortFunc(ranks, func(a, b int) int { return b - a })

	straight, high := straightHigh(counts)
	if flush && straight {
		return HandRank{Category: StraightFlush, Tiebreak: []int{high}}
	}

	// groups ordered by count then rank, both descending
	groups := make([]rankGroup, 0, 5)
	for r := int(Ace); r >= int(Two); r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int { return b.count - a.count })

	switch {
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: []int{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreak: []int{groups[0].rank, groups[1].rank}}
	case flush:
		return HandRank{Category: Flush, Tiebreak: ranks}
	case straight:
		return HandRank{Category: Straight, Tiebreak: []int{high}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: groupRanks(groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreak: groupRanks(groups)}
	case groups[0].count == 2:
		return HandRank{Category: Pair, Tiebreak: groupRanks(groups)}
	default:
		return HandRank{Category: HighCard, Tiebreak: ranks}
	}
}

type rankGroup struct{ rank, count int }

func groupRanks(groups []rankGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}

// straightHigh reports whether the rank multiset holds five consecutive ranks.
// The wheel (A-2-3-4-5) plays the ace low and is 5 high.
func straightHigh(counts [15]int) (bool, int) {
	for high := int(Ace); high >= int(Six); high-- {
		if counts[high] == 1 && counts[high-1] == 1 && counts[high-2] == 1 &&
			counts[high-3] == 1 && counts[high-4] == 1 {
			return true, high
		}
	}
	if counts[Ace] == 1 && counts[Two] == 1 && counts[Three] == 1 && counts[Four] == 1 && counts[Five] == 1 {
		return true, int(Five)
	}
	return false, 0
}
