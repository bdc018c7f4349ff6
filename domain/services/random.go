package services

import (
	"math/rand/v2"

	"clover/domain/entities"
)

// RandomSource is the randomness used by the games. Implementations must be
// safe for concurrent use.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// NewRandomSource returns a RandomSource backed by the runtime's seeded generator
func NewRandomSource() RandomSource {
	return globalRandom{}
}

// CardSource deals blackjack cards
type CardSource interface {
	Draw() entities.Card
}

// shoe deals from an endless supply of decks, every card equally likely on
// every draw
type shoe struct {
	rng  RandomSource
	deck []entities.Card
}

// NewShoe returns a CardSource drawing uniformly from a 52-card deck with replacement
func NewShoe(rng RandomSource) CardSource {
	return &shoe{rng: rng, deck: entities.NewDeck()}
}

func (s *shoe) Draw() entities.Card {
	return s.deck[s.rng.IntN(len(s.deck))]
}
