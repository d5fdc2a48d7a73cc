package poker

// HoleCardCategory is a coarse preflop strength label
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards labels a starting hand:
//
//	Premium  JJ+ and AK
//	Strong   TT, AQ and AJ
//	Medium   77-99 and suited broadway
//	Weak     22-66 and suited cards at most two ranks apart
//	Trash    everything else
func CategorizeHoleCards(a, b Card) HoleCardCategory {
	if !a.Rank.valid() || !b.Rank.valid() {
		return CategoryUnknown
	}
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}

	if hi == lo {
		switch {
		case hi >= Jack:
			return CategoryPremium
		case hi == Ten:
			return CategoryStrong
		case hi >= Seven:
			return CategoryMedium
		default:
			return CategoryWeak
		}
	}

	suited := a.Suit == b.Suit
	switch {
	case hi == Ace && lo == King:
		return CategoryPremium
	case hi == Ace && lo >= Jack:
		return CategoryStrong
	case suited && lo >= Ten:
		return CategoryMedium
	case suited && hi-lo <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}

// CategorizeHoleText labels hole cards typed as text, e.g. "As Kd".
func CategorizeHoleText(text string) HoleCardCategory {
	cards, err := ParseCardsText(text)
	if err != nil || len(cards) != 2 {
		return CategoryUnknown
	}
	return CategorizeHoleCards(cards[0], cards[1])
}
