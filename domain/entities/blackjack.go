package entities

import (
	"slices"
	"time"
)

const (
	// MinTableBet and MaxTableBet bound roulette and blackjack bets
	MinTableBet int64 = 100
	MaxTableBet int64 = 1000

	// DealerStandValue is the total at which the dealer stops drawing
	DealerStandValue = 17
)

// BlackjackState is the lifecycle state of a blackjack session
type BlackjackState string

const (
	BlackjackStateAwaitingPlayerAction BlackjackState = "awaiting_player_action"
	BlackjackStateDealerResolving      BlackjackState = "dealer_resolving"
	BlackjackStateSettled              BlackjackState = "settled"
)

// BlackjackAction is a player's move while the session awaits input
type BlackjackAction string

const (
	BlackjackActionHit   BlackjackAction = "hit"
	BlackjackActionStand BlackjackAction = "stand"
)

// BlackjackOutcome is how a settled session ended
type BlackjackOutcome string

const (
	BlackjackOutcomePlayerBust BlackjackOutcome = "player_bust"
	BlackjackOutcomeDealerBust BlackjackOutcome = "dealer_bust"
	BlackjackOutcomePlayerWin  BlackjackOutcome = "player_win"
	BlackjackOutcomeDealerWin  BlackjackOutcome = "dealer_win"
	BlackjackOutcomePush       BlackjackOutcome = "push"
)

// Payout returns the amount credited back for a bet with this outcome
func (o BlackjackOutcome) Payout(bet int64) int64 {
	switch o {
	case BlackjackOutcomePlayerWin, BlackjackOutcomeDealerBust:
		return 2 * bet
	case BlackjackOutcomePush:
		return bet
	default:
		return 0
	}
}

// BlackjackSession is the in-memory state of one game. It is not persisted
// and must only be mutated while its owner holds the session lock.
type BlackjackSession struct {
	ID         string
	AccountID  int64
	ChannelID  int64
	Bet        int64
	PlayerHand []Card
	DealerHand []Card
	State      BlackjackState
	Outcome    BlackjackOutcome
	Payout     int64
	TimedOut   bool
	StartedAt  time.Time
	SettledAt  time.Time
}

// PlayerValue returns the current value of the player's hand
func (s *BlackjackSession) PlayerValue() int {
	return HandValue(s.PlayerHand)
}

// DealerValue returns the current value of the dealer's hand
func (s *BlackjackSession) DealerValue() int {
	return HandValue(s.DealerHand)
}

// Hit adds a card to the player's hand and settles the session as a bust
// when the hand goes over 21.
func (s *BlackjackSession) Hit(c Card) {
	if s.State != BlackjackStateAwaitingPlayerAction {
		return
	}
	s.PlayerHand = append(s.PlayerHand, c)
	if IsBust(s.PlayerHand) {
		s.settle(BlackjackOutcomePlayerBust)
	}
}

// Stand hands control to the dealer
func (s *BlackjackSession) Stand() {
	if s.State == BlackjackStateAwaitingPlayerAction {
		s.State = BlackjackStateDealerResolving
	}
}

// ResolveDealer draws for the dealer until 17 or more and settles the session
func (s *BlackjackSession) ResolveDealer(draw func() Card) {
	if s.State != BlackjackStateDealerResolving {
		return
	}
	for s.DealerValue() < DealerStandValue {
		s.DealerHand = append(s.DealerHand, draw())
	}

	player, dealer := s.PlayerValue(), s.DealerValue()
	switch {
	case dealer > BlackjackLimit:
		s.settle(BlackjackOutcomeDealerBust)
	case player > dealer:
		s.settle(BlackjackOutcomePlayerWin)
	case dealer > player:
		s.settle(BlackjackOutcomeDealerWin)
	default:
		s.settle(BlackjackOutcomePush)
	}
}

func (s *BlackjackSession) settle(outcome BlackjackOutcome) {
	s.Outcome = outcome
	s.Payout = outcome.Payout(s.Bet)
	s.State = BlackjackStateSettled
}

// IsSettled reports whether the session reached its terminal state
func (s *BlackjackSession) IsSettled() bool {
	return s.State == BlackjackStateSettled
}

// View returns a copy safe to hand to callers outside the session lock
func (s *BlackjackSession) View() *BlackjackView {
	return &BlackjackView{
		SessionID:   s.ID,
		AccountID:   s.AccountID,
		ChannelID:   s.ChannelID,
		Bet:         s.Bet,
		PlayerHand:  slices.Clone(s.PlayerHand),
		DealerHand:  slices.Clone(s.DealerHand),
		PlayerValue: s.PlayerValue(),
		DealerValue: s.DealerValue(),
		State:       s.State,
		Outcome:     s.Outcome,
		Payout:      s.Payout,
		TimedOut:    s.TimedOut,
	}
}

// BlackjackView is a point-in-time snapshot of a session. Balance is the
// account's cash after the last ledger call the session made.
type BlackjackView struct {
	SessionID   string
	AccountID   int64
	ChannelID   int64
	Bet         int64
	PlayerHand  []Card
	DealerHand  []Card
	PlayerValue int
	DealerValue int
	State       BlackjackState
	Outcome     BlackjackOutcome
	Payout      int64
	TimedOut    bool
	Balance     int64
}

// DealerUpCard returns the dealer's visible card while the player is acting
func (v *BlackjackView) DealerUpCard() (Card, bool) {
	if len(v.DealerHand) == 0 {
		return Card{}, false
	}
	return v.DealerHand[0], true
}
