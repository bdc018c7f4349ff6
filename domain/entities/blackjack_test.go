package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSession(player, dealer []Card) *BlackjackSession {
	return &BlackjackSession{
		Bet:        200,
		PlayerHand: player,
		DealerHand: dealer,
		State:      BlackjackStateAwaitingPlayerAction,
	}
}

func drawFrom(cards ...Card) func() Card {
	return func() Card {
		c := cards[0]
		cards = cards[1:]
		return c
	}
}

func TestBlackjackSession_HitBust(t *testing.T) {
	t.Parallel()

	s := newSession(
		[]Card{{Rank: Ten, Suit: Spades}, {Rank: Six, Suit: Hearts}},
		[]Card{{Rank: Nine, Suit: Clubs}, {Rank: Seven, Suit: Clubs}},
	)
	s.Hit(Card{Rank: King, Suit: Diamonds})

	assert.True(t, s.IsSettled())
	assert.Equal(t, BlackjackOutcomePlayerBust, s.Outcome)
	assert.Equal(t, int64(0), s.Payout)
}

func TestBlackjackSession_DealerResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		player  []Card
		dealer  []Card
		draws   []Card
		outcome BlackjackOutcome
		payout  int64
	}{
		{
			name:    "dealer busts",
			player:  []Card{{Rank: Ten, Suit: Spades}, {Rank: Eight, Suit: Spades}},
			dealer:  []Card{{Rank: Ten, Suit: Hearts}, {Rank: Six, Suit: Hearts}},
			draws:   []Card{{Rank: King, Suit: Hearts}},
			outcome: BlackjackOutcomeDealerBust,
			payout:  400,
		},
		{
			name:    "player higher",
			player:  []Card{{Rank: Ten, Suit: Spades}, {Rank: Nine, Suit: Spades}},
			dealer:  []Card{{Rank: Ten, Suit: Hearts}, {Rank: Seven, Suit: Hearts}},
			outcome: BlackjackOutcomePlayerWin,
			payout:  400,
		},
		{
			name:    "dealer higher",
			player:  []Card{{Rank: Ten, Suit: Spades}, {Rank: Seven, Suit: Spades}},
			dealer:  []Card{{Rank: Five, Suit: Hearts}, {Rank: Four, Suit: Hearts}},
			draws:   []Card{{Rank: Nine, Suit: Clubs}},
			outcome: BlackjackOutcomeDealerWin,
			payout:  0,
		},
		{
			name:    "push refunds bet",
			player:  []Card{{Rank: Ten, Suit: Spades}, {Rank: Eight, Suit: Spades}},
			dealer:  []Card{{Rank: Ten, Suit: Hearts}, {Rank: Eight, Suit: Hearts}},
			outcome: BlackjackOutcomePush,
			payout:  200,
		},
		{
			name:    "soft seventeen stands",
			player:  []Card{{Rank: Ten, Suit: Spades}, {Rank: Six, Suit: Spades}},
			dealer:  []Card{{Rank: Ace, Suit: Hearts}, {Rank: Six, Suit: Hearts}},
			outcome: BlackjackOutcomeDealerWin,
			payout:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSession(tt.player, tt.dealer)
			s.Stand()
			assert.Equal(t, BlackjackStateDealerResolving, s.State)

			s.ResolveDealer(drawFrom(tt.draws...))
			assert.True(t, s.IsSettled())
			assert.Equal(t, tt.outcome, s.Outcome)
			assert.Equal(t, tt.payout, s.Payout)
			assert.GreaterOrEqual(t, s.DealerValue(), DealerStandValue)
		})
	}
}

func TestBlackjackSession_ActionsIgnoredOnceSettled(t *testing.T) {
	t.Parallel()

	s := newSession([]Card{{Rank: Ten, Suit: Spades}, {Rank: Nine, Suit: Spades}}, []Card{{Rank: Ten, Suit: Hearts}, {Rank: Seven, Suit: Hearts}})
	s.Stand()
	s.ResolveDealer(drawFrom())
	hand := len(s.PlayerHand)

	s.Hit(Card{Rank: Two, Suit: Clubs})
	s.Stand()

	assert.Len(t, s.PlayerHand, hand)
	assert.Equal(t, BlackjackStateSettled, s.State)
}

func TestBlackjackSession_ViewCopiesHands(t *testing.T) {
	t.Parallel()

	s := newSession([]Card{{Rank: Two, Suit: Spades}, {Rank: Three, Suit: Spades}}, []Card{{Rank: Ten, Suit: Hearts}, {Rank: Seven, Suit: Hearts}})
	view := s.View()
	s.Hit(Card{Rank: Four, Suit: Clubs})

	assert.Len(t, view.PlayerHand, 2)
	assert.Equal(t, 5, view.PlayerValue)
	up, ok := view.DealerUpCard()
	assert.True(t, ok)
	assert.Equal(t, Card{Rank: Ten, Suit: Hearts}, up)
}
