package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBlackjackTurnTimeout = 30 * time.Second
	DefaultBlackjackCooldown    = 24 * time.Hour

	// settleTimeout bounds the ledger calls made from a turn timer or shutdown
	settleTimeout = 10 * time.Second
)

var errTablesClosed = fmt.Errorf("%w: blackjack tables are closed", entities.ErrSessionConflict)

// SettlementListener receives every settled session, including those settled
// by a turn timeout where no caller is waiting for the result.
type SettlementListener func(view *entities.BlackjackView)

// BlackjackConfig tunes the blackjack tables. Zero durations use the defaults.
type BlackjackConfig struct {
	TurnTimeout time.Duration
	Cooldown    time.Duration
	OnSettled   SettlementListener
}

type tableKey struct {
	accountID int64
	channelID int64
}

// table guards one session. session is nil while a start is still debiting
// the bet.
type table struct {
	mu      sync.Mutex
	session *entities.BlackjackSession
	balance int64
	timer   *time.Timer
	turn    int
}

type blackjackService struct {
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
	cards          CardSource
	turnTimeout    time.Duration
	cooldown       time.Duration
	onSettled      SettlementListener
	now            func() time.Time

	mu        sync.Mutex
	tables    map[tableKey]*table
	lastStart map[int64]time.Time
	closed    bool
}

// NewBlackjackService creates the blackjack tables. Sessions live only in
// memory; a restart loses them, with their bets already debited.
func NewBlackjackService(ledger interfaces.LedgerService, eventPublisher interfaces.EventPublisher, cards CardSource, cfg BlackjackConfig) interfaces.BlackjackService {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultBlackjackTurnTimeout
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBlackjackCooldown
	}
	if cards == nil {
		cards = NewShoe(NewRandomSource())
	}
	return &blackjackService{
		ledger:         ledger,
		eventPublisher: eventPublisher,
		cards:          cards,
		turnTimeout:    cfg.TurnTimeout,
		cooldown:       cfg.Cooldown,
		onSettled:      cfg.OnSettled,
		now:            time.Now,
		tables:         make(map[tableKey]*table),
		lastStart:      make(map[int64]time.Time),
	}
}

func (s *blackjackService) StartBlackjack(ctx context.Context, accountID, channelID int64, bet int64) (*entities.BlackjackView, error) {
	key := tableKey{accountID: accountID, channelID: channelID}
	if err := s.checkCanStart(key); err != nil {
		return nil, err
	}

	if bet < entities.MinTableBet || bet > entities.MaxTableBet {
		return nil, entities.ErrInvalidBet
	}
	balance, err := s.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if bet > balance {
		return nil, entities.ErrInvalidBet
	}

	t, err := s.reserve(key)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()

	balance, err = s.ledger.Debit(ctx, accountID, bet, entities.Reason(entities.TransactionTypeBlackjackBet, map[string]any{"channel_id": channelID}))
	if err != nil {
		t.mu.Unlock()
		s.unreserve(key, t)
		if errors.Is(err, entities.ErrInsufficientFunds) {
			return nil, fmt.Errorf("%w: %w", entities.ErrInvalidBet, err)
		}
		return nil, err
	}

	session := &entities.BlackjackSession{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ChannelID: channelID,
		Bet:       bet,
		State:     entities.BlackjackStateAwaitingPlayerAction,
		StartedAt: s.now(),
	}
	session.PlayerHand = []entities.Card{s.cards.Draw(), s.cards.Draw()}
	session.DealerHand = []entities.Card{s.cards.Draw(), s.cards.Draw()}
	t.session = session
	t.balance = balance

	log.WithFields(log.Fields{
		"accountID": accountID,
		"channelID": channelID,
		"sessionID": session.ID,
		"bet":       bet,
	}).Info("Blackjack session started")

	view, settleErr := s.advance(ctx, key, t)
	t.mu.Unlock()
	s.notify(view)
	return view, settleErr
}

func (s *blackjackService) BlackjackAction(ctx context.Context, accountID, channelID int64, action entities.BlackjackAction) (*entities.BlackjackView, error) {
	if action != entities.BlackjackActionHit && action != entities.BlackjackActionStand {
		return nil, fmt.Errorf("%w: unknown blackjack action %q", entities.ErrInvalidArgument, action)
	}

	key := tableKey{accountID: accountID, channelID: channelID}
	s.mu.Lock()
	t, ok := s.tables[key]
	s.mu.Unlock()
	if !ok {
		return nil, entities.ErrNoActiveSession
	}

	t.mu.Lock()
	if t.session == nil || t.session.State != entities.BlackjackStateAwaitingPlayerAction {
		t.mu.Unlock()
		return nil, entities.ErrNoActiveSession
	}
	s.stopTimer(t)

	switch action {
	case entities.BlackjackActionHit:
		t.session.Hit(s.cards.Draw())
	case entities.BlackjackActionStand:
		t.session.Stand()
	}

	view, err := s.advance(ctx, key, t)
	t.mu.Unlock()
	s.notify(view)
	return view, err
}

func (s *blackjackService) ActiveSession(accountID, channelID int64) (*entities.BlackjackView, bool) {
	s.mu.Lock()
	t, ok := s.tables[tableKey{accountID: accountID, channelID: channelID}]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil || t.session.IsSettled() {
		return nil, false
	}
	view := t.session.View()
	view.Balance = t.balance
	return view, true
}

// Shutdown closes the tables and resolves every open hand as a stand, so no
// debited bet is left without a settlement.
func (s *blackjackService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	open := make(map[tableKey]*table, len(s.tables))
	for key, t := range s.tables {
		open[key] = t
	}
	s.mu.Unlock()

	for key, t := range open {
		t.mu.Lock()
		view, err := s.standOnBehalf(key, t, "shutdown")
		t.mu.Unlock()
		s.afterForcedStand(view, err)
	}
	log.WithField("sessions", len(open)).Info("Blackjack tables shut down")
}

func (s *blackjackService) checkCanStart(key tableKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked(key)
}

func (s *blackjackService) checkLocked(key tableKey) error {
	if s.closed {
		return errTablesClosed
	}
	if _, busy := s.tables[key]; busy {
		return entities.ErrSessionConflict
	}
	if last, ok := s.lastStart[key.accountID]; ok {
		remaining := last.Add(s.cooldown).Sub(s.now())
		if remaining > 0 {
			return &entities.CooldownError{Remaining: remaining}
		}
		delete(s.lastStart, key.accountID)
	}
	return nil
}

// reserve claims the table key and the account's cooldown before the bet is
// debited, so two concurrent starts cannot both get past here.
func (s *blackjackService) reserve(key tableKey) (*table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(key); err != nil {
		return nil, err
	}
	t := &table{}
	s.tables[key] = t
	s.lastStart[key.accountID] = s.now()
	return t, nil
}

// unreserve undoes reserve for a start that never dealt
func (s *blackjackService) unreserve(key tableKey, t *table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[key] == t {
		delete(s.tables, key)
		delete(s.lastStart, key.accountID)
	}
}

func (s *blackjackService) release(key tableKey, t *table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[key] == t {
		delete(s.tables, key)
	}
}

// advance moves the session forward after a deal or a player move. A hand
// of exactly 21 stands on its own. Must be called with t.mu held.
func (s *blackjackService) advance(ctx context.Context, key tableKey, t *table) (*entities.BlackjackView, error) {
	session := t.session
	if session.State == entities.BlackjackStateAwaitingPlayerAction && session.PlayerValue() == entities.BlackjackLimit {
		session.Stand()
	}
	if session.State == entities.BlackjackStateAwaitingPlayerAction {
		s.armTimer(key, t)
		view := session.View()
		view.Balance = t.balance
		return view, nil
	}

	session.ResolveDealer(s.cards.Draw)
	return s.settle(ctx, key, t)
}

// settle pays out a settled session and removes it from the tables. Must be
// called with t.mu held.
func (s *blackjackService) settle(ctx context.Context, key tableKey, t *table) (*entities.BlackjackView, error) {
	session := t.session
	session.SettledAt = s.now()
	s.stopTimer(t)
	s.release(key, t)

	fields := log.Fields{
		"accountID": session.AccountID,
		"channelID": session.ChannelID,
		"sessionID": session.ID,
		"outcome":   session.Outcome,
		"payout":    session.Payout,
		"timedOut":  session.TimedOut,
	}

	var settleErr error
	if session.Payout > 0 {
		tt := entities.TransactionTypeWagerPayout
		if session.Outcome == entities.BlackjackOutcomePush {
			tt = entities.TransactionTypeWagerRefund
		}
		reason := entities.Reason(tt, map[string]any{"game": string(entities.GameKindBlackjack), "session_id": session.ID})
		balance, err := s.ledger.Credit(ctx, session.AccountID, session.Payout, reason)
		if err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to credit blackjack payout")
			settleErr = err
			if !entities.IsRetryable(err) {
				settleErr = entities.NewStorageError("blackjack payout", err)
			}
		} else {
			t.balance = balance
		}
	}

	log.WithFields(fields).Info("Blackjack session settled")

	if s.eventPublisher != nil {
		event := events.WagerSettledEvent{
			AccountID: session.AccountID,
			Game:      entities.GameKindBlackjack,
			Bet:       session.Bet,
			Payout:    session.Payout,
			Won:       session.Payout > session.Bet,
			Outcome:   string(session.Outcome),
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish wager settled event")
		}
	}

	view := session.View()
	view.Balance = t.balance
	return view, settleErr
}

// armTimer starts the turn clock. A timer that fires after the turn it was
// armed for has passed does nothing. Must be called with t.mu held.
func (s *blackjackService) armTimer(key tableKey, t *table) {
	t.turn++
	turn := t.turn
	t.timer = time.AfterFunc(s.turnTimeout, func() {
		s.onTurnTimeout(key, t, turn)
	})
}

func (s *blackjackService) stopTimer(t *table) {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.turn++
}

func (s *blackjackService) onTurnTimeout(key tableKey, t *table, turn int) {
	t.mu.Lock()
	if t.turn != turn {
		t.mu.Unlock()
		return
	}
	view, err := s.standOnBehalf(key, t, "turn timeout")
	t.mu.Unlock()
	s.afterForcedStand(view, err)
}

// standOnBehalf resolves an open hand as if the player stood. Must be called
// with t.mu held.
func (s *blackjackService) standOnBehalf(key tableKey, t *table, cause string) (*entities.BlackjackView, error) {
	if t.session == nil || t.session.State != entities.BlackjackStateAwaitingPlayerAction {
		return nil, nil
	}

	log.WithFields(log.Fields{
		"accountID": key.accountID,
		"channelID": key.channelID,
		"sessionID": t.session.ID,
		"cause":     cause,
	}).Info("Standing blackjack hand on behalf of player")

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	t.session.TimedOut = true
	t.session.Stand()
	t.session.ResolveDealer(s.cards.Draw)
	return s.settle(ctx, key, t)
}

func (s *blackjackService) afterForcedStand(view *entities.BlackjackView, err error) {
	if err != nil {
		log.WithError(err).Error("Forced blackjack settlement failed")
	}
	s.notify(view)
}

func (s *blackjackService) notify(view *entities.BlackjackView) {
	if view == nil || s.onSettled == nil || view.State != entities.BlackjackStateSettled {
		return
	}
	s.onSettled(view)
}
