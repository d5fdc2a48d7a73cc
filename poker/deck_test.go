package poker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDealsEveryCardOnce(t *testing.T) {
	t.Parallel()

	d := NewDeck(rand.New(rand.NewSource(1)))
	seen := make(map[Card]bool)
	for d.CardsRemaining() > 0 {
		for _, c := range d.Deal(4) {
			require.False(t, seen[c], "dealt %s twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 52)
	assert.Nil(t, d.Deal(1))
}

func TestDeckSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(rand.New(rand.NewSource(42))).DealText(9)
	b := NewDeck(rand.New(rand.NewSource(42))).DealText(9)
	assert.Equal(t, a, b)

	cards, err := ParseCardsText(a)
	require.NoError(t, err)
	assert.Len(t, cards, 9)
}
