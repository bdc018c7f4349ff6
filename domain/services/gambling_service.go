package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const slotReelCount = 3

type gamblingService struct {
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
	rng            RandomSource
	winChance      float64
}

// NewGamblingService creates the slots and roulette engine. A winChance
// outside (0, 1) falls back to the default slots probability; config
// validation rejects such values before they get here.
func NewGamblingService(ledger interfaces.LedgerService, eventPublisher interfaces.EventPublisher, rng RandomSource, winChance float64) interfaces.GamblingService {
	if winChance <= 0 || winChance >= 1 {
		winChance = entities.DefaultSlotsWinProbability
	}
	if rng == nil {
		rng = NewRandomSource()
	}
	return &gamblingService{
		ledger:         ledger,
		eventPublisher: eventPublisher,
		rng:            rng,
		winChance:      winChance,
	}
}

func (s *gamblingService) Spin(ctx context.Context, game entities.GameKind, accountID int64, bet int64, target string) (*entities.SpinResult, error) {
	switch game {
	case entities.GameKindSlots:
		return s.SpinSlots(ctx, accountID, bet)
	case entities.GameKindRoulette:
		return s.SpinRoulette(ctx, accountID, bet, target)
	default:
		return nil, fmt.Errorf("%w: %q is not a single-spin game", entities.ErrInvalidArgument, game)
	}
}

// SpinSlots decides the outcome first and then picks reel symbols that agree
// with it. The bet is debited before anything is shown.
func (s *gamblingService) SpinSlots(ctx context.Context, accountID int64, bet int64) (*entities.SpinResult, error) {
	balance, err := s.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if bet <= 0 || bet > balance {
		return nil, entities.ErrInvalidBet
	}

	if balance, err = s.debitBet(ctx, entities.GameKindSlots, accountID, bet, nil); err != nil {
		return nil, err
	}

	won := s.rng.Float64() < s.winChance
	result := &entities.SpinResult{
		Game:    entities.GameKindSlots,
		Bet:     bet,
		Won:     won,
		Balance: balance,
		Reels:   s.reels(won),
	}

	if won {
		result.Payout = bet * entities.SlotsPayoutMultiplier
		if result.Balance, err = s.creditPayout(ctx, entities.GameKindSlots, accountID, result.Payout); err != nil {
			return nil, err
		}
	}

	s.publishSettled(accountID, result, strings.Join(result.Reels, " "))
	return result, nil
}

// SpinRoulette accepts bets between the table minimum and the smaller of the
// table maximum and the current balance.
func (s *gamblingService) SpinRoulette(ctx context.Context, accountID int64, bet int64, rawTarget string) (*entities.SpinResult, error) {
	target, err := entities.ParseRouletteTarget(rawTarget)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if bet < entities.MinTableBet || bet > min(entities.MaxTableBet, balance) {
		return nil, entities.ErrInvalidBet
	}

	metadata := map[string]any{"target": target.String()}
	if balance, err = s.debitBet(ctx, entities.GameKindRoulette, accountID, bet, metadata); err != nil {
		return nil, err
	}

	pocket := entities.RouletteWheel[s.rng.IntN(len(entities.RouletteWheel))]
	result := &entities.SpinResult{
		Game:    entities.GameKindRoulette,
		Bet:     bet,
		Won:     target.Matches(pocket),
		Balance: balance,
		Pocket:  &pocket,
		Target:  &target,
	}

	if result.Won {
		result.Payout = bet * target.Multiplier()
		if result.Balance, err = s.creditPayout(ctx, entities.GameKindRoulette, accountID, result.Payout); err != nil {
			return nil, err
		}
	}

	s.publishSettled(accountID, result, pocket.Label)
	return result, nil
}

// debitBet takes the stake. Losing a race against another debit between the
// balance check and here surfaces as an invalid bet that is also an
// insufficient funds error.
func (s *gamblingService) debitBet(ctx context.Context, game entities.GameKind, accountID, bet int64, metadata map[string]any) (int64, error) {
	balance, err := s.ledger.Debit(ctx, accountID, bet, entities.Reason(game.BetTransactionType(), metadata))
	if err != nil {
		if errors.Is(err, entities.ErrInsufficientFunds) {
			return 0, fmt.Errorf("%w: %w", entities.ErrInvalidBet, err)
		}
		return 0, err
	}
	return balance, nil
}

func (s *gamblingService) creditPayout(ctx context.Context, game entities.GameKind, accountID, payout int64) (int64, error) {
	balance, err := s.ledger.Credit(ctx, accountID, payout, entities.Reason(entities.TransactionTypeWagerPayout, map[string]any{"game": string(game)}))
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"accountID": accountID,
			"game":      game,
			"payout":    payout,
		}).Error("Failed to credit wager payout")
		return 0, err
	}
	return balance, nil
}

// reels returns three matching symbols for a win. A loss shows three
// independent draws; a chance match there is cosmetic and pays nothing.
func (s *gamblingService) reels(won bool) []string {
	n := len(entities.SlotSymbols)
	reels := make([]string, slotReelCount)
	if won {
		symbol := entities.SlotSymbols[s.rng.IntN(n)]
		for i := range reels {
			reels[i] = symbol
		}
		return reels
	}

	for i := range reels {
		reels[i] = entities.SlotSymbols[s.rng.IntN(n)]
	}
	return reels
}

func (s *gamblingService) publishSettled(accountID int64, result *entities.SpinResult, outcome string) {
	log.WithFields(log.Fields{
		"accountID": accountID,
		"game":      result.Game,
		"bet":       result.Bet,
		"payout":    result.Payout,
		"won":       result.Won,
	}).Debug("Spin settled")

	if s.eventPublisher == nil {
		return
	}
	event := events.WagerSettledEvent{
		AccountID: accountID,
		Game:      result.Game,
		Bet:       result.Bet,
		Payout:    result.Payout,
		Won:       result.Won,
		Outcome:   outcome,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish wager settled event")
	}
}
