package games

import (
	"strings"

	"github.com/LachieKelly/casino/internal/engine"
)

type card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c card) String() string { return c.Rank + c.Suit }

var (
	cardSuits = []string{"♠", "♥", "♦", "♣"}
	cardRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// newDeck returns a freshly shuffled 52-card deck.
func newDeck(src engine.Source) []card {
	deck := make([]card, 0, 52)
	for _, suit := range cardSuits {
		for _, rank := range cardRanks {
			deck = append(deck, card{Rank: rank, Suit: suit})
		}
	}
	engine.Shuffle(src, len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// handValue scores a blackjack hand. Aces count 11, then drop to 1 one at
// a time while the total busts.
func handValue(hand []card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		switch c.Rank {
		case "A":
			total += 11
			aces++
		case "K", "Q", "J", "10":
			total += 10
		default:
			// Ranks "2".."9" map directly.
			total += int(c.Rank[0] - '0')
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func handString(hand []card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
