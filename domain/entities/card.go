package entities

import "fmt"

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// BlackjackLimit is the highest hand value that does not bust
const BlackjackLimit = 21

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

var rankLabels = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var suitLabels = map[Suit]string{Spades: "♠", Hearts: "♥", Diamonds: "♦", Clubs: "♣"}

func (c Card) String() string {
	r, ok := rankLabels[c.Rank]
	if !ok {
		r = fmt.Sprintf("?%d", c.Rank)
	}
	return r + suitLabels[c.Suit]
}

// Value is the card's blackjack value with an ace counted high
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// HandValue scores a blackjack hand. Aces count 11 and are demoted to 1 one
// at a time while the total exceeds 21.
func HandValue(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		total += c.Value()
		if c.Rank == Ace {
			aces++
		}
	}
	for total > BlackjackLimit && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBust reports whether the hand is over 21
func IsBust(cards []Card) bool {
	return HandValue(cards) > BlackjackLimit
}

// NewDeck returns an ordered 52-card deck
func NewDeck() []Card {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}
