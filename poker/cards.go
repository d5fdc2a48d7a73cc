package poker

import (
	"fmt"
	"strings"
	"unicode"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the canonical single-letter suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the suit glyph used for display
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank, aces high
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

func (r Rank) valid() bool {
	return r >= Two && r <= Ace
}

// String returns the canonical rank character
func (r Rank) String() string {
	if !r.valid() {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the canonical text form (e.g. "As", "Th")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a suit glyph (e.g. "A♠")
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// ParseCard parses a single card token such as "As", "10h", "td" or "Q♦".
func ParseCard(token string) (Card, error) {
	runes := []rune(token)
	var rankPart string
	var suitRune rune
	switch {
	case len(runes) == 2:
		rankPart, suitRune = string(runes[0]), runes[1]
	case len(runes) == 3 && runes[0] == '1' && runes[1] == '0':
		rankPart, suitRune = "10", runes[2]
	default:
		return Card{}, fmt.Errorf("invalid card %q", token)
	}

	rank, ok := parseRank(rankPart)
	if !ok {
		return Card{}, fmt.Errorf("invalid card %q", token)
	}
	suit, ok := parseSuit(suitRune)
	if !ok {
		return Card{}, fmt.Errorf("invalid card %q", token)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCardsText parses free-form card text. Tokens are separated by commas
// or whitespace; a repeated card is an error.
func ParseCardsText(text string) ([]Card, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	cards := make([]Card, 0, len(tokens))
	seen := make(map[Card]bool, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %q", tok)
		}
		seen[c] = true
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(text string) []Card {
	cards, err := ParseCardsText(text)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", text, err))
	}
	return cards
}

// FormatCards renders cards in canonical text separated by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseRank(s string) (Rank, bool) {
	if s == "10" {
		return Ten, true
	}
	if len(s) != 1 {
		return 0, false
	}
	i := strings.IndexByte(rankChars, byte(unicode.ToUpper(rune(s[0]))))
	if i < 0 {
		return 0, false
	}
	return Two + Rank(i), true
}

func parseSuit(r rune) (Suit, bool) {
	switch r {
	case 's', 'S', '♠', '♤':
		return Spades, true
	case 'h', 'H', '♥', '♡':
		return Hearts, true
	case 'd', 'D', '♦', '♢':
		return Diamonds, true
	case 'c', 'C', '♣', '♧':
		return Clubs, true
	default:
		return 0, false
	}
}
