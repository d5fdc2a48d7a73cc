package poker

import (
	"math/rand"
	"time"
)

// Deck is a 52-card deck dealt from the top
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck returns a shuffled deck. The same seeded rng gives the same order;
// a nil rng is seeded from the clock.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	d.Shuffle()
	return d
}

// Shuffle gathers all 52 cards and shuffles them
func (d *Deck) Shuffle() {
	d.cards = d.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes n cards from the top. It returns nil when fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		return nil
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out
}

// DealText deals n cards as canonical card text
func (d *Deck) DealText(n int) string {
	return FormatCards(d.Deal(n))
}

func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}
