package services

import (
	"context"
	"slices"
	"time"

	"clover/domain/entities"
	"clover/domain/interfaces"
	"clover/domain/utils"

	log "github.com/sirupsen/logrus"
)

const DefaultDailyIncome int64 = 500

type claimService struct {
	uowFactory  interfaces.UnitOfWorkFactory
	dailyIncome int64
	weeklyTiers map[string]int64
	now         func() time.Time
}

// NewClaimService creates the daily and weekly income gates. weeklyTiers maps
// a tier name to the amount it contributes to a weekly claim.
func NewClaimService(uowFactory interfaces.UnitOfWorkFactory, dailyIncome int64, weeklyTiers map[string]int64) interfaces.ClaimService {
	if dailyIncome <= 0 {
		dailyIncome = DefaultDailyIncome
	}
	tiers := make(map[string]int64, len(weeklyTiers))
	for name, amount := range weeklyTiers {
		if amount > 0 {
			tiers[name] = amount
		}
	}
	return &claimService{
		uowFactory:  uowFactory,
		dailyIncome: dailyIncome,
		weeklyTiers: tiers,
		now:         time.Now,
	}
}

func (s *claimService) ClaimDaily(ctx context.Context, accountID int64, eligible bool) (*entities.ClaimResult, error) {
	if !eligible {
		return &entities.ClaimResult{Kind: entities.ClaimKindDaily, Status: entities.ClaimStatusNotEligible}, nil
	}
	return s.claim(ctx, accountID, entities.ClaimKindDaily, s.dailyIncome, nil)
}

// ClaimWeekly grants the sum of every configured tier the account holds.
// Unknown tiers contribute nothing and repeated tiers count once.
func (s *claimService) ClaimWeekly(ctx context.Context, accountID int64, tiers []string) (*entities.ClaimResult, error) {
	amount, qualifying := s.weeklyAmount(tiers)
	if amount == 0 {
		return &entities.ClaimResult{Kind: entities.ClaimKindWeekly, Status: entities.ClaimStatusNotEligible}, nil
	}
	return s.claim(ctx, accountID, entities.ClaimKindWeekly, amount, qualifying)
}

// Collect attempts both claims. A storage failure on the weekly claim does
// not undo a daily grant that already committed.
func (s *claimService) Collect(ctx context.Context, accountID int64, eligible bool, tiers []string) (*entities.CollectResult, error) {
	daily, err := s.ClaimDaily(ctx, accountID, eligible)
	if err != nil {
		return nil, err
	}
	weekly, err := s.ClaimWeekly(ctx, accountID, tiers)
	if err != nil {
		return &entities.CollectResult{Daily: daily}, err
	}
	return &entities.CollectResult{Daily: daily, Weekly: weekly}, nil
}

func (s *claimService) weeklyAmount(tiers []string) (int64, []string) {
	var amount int64
	var qualifying []string
	for _, tier := range tiers {
		value, ok := s.weeklyTiers[tier]
		if !ok || slices.Contains(qualifying, tier) {
			continue
		}
		amount += value
		qualifying = append(qualifying, tier)
	}
	slices.Sort(qualifying)
	return amount, qualifying
}

// claim stamps the gate and credits the account in one transaction, so a
// retried claim after a successful commit finds the gate closed.
func (s *claimService) claim(ctx context.Context, accountID int64, kind entities.ClaimKind, amount int64, tiers []string) (*entities.ClaimResult, error) {
	result := &entities.ClaimResult{Kind: kind, Tiers: tiers}
	now := s.now()

	err := inTransaction(ctx, s.uowFactory, "claim "+string(kind), func(uow interfaces.UnitOfWork) error {
		accounts := uow.AccountRepository()

		inserted, err := accounts.Ensure(ctx, accountID)
		if err != nil {
			return err
		}
		if inserted {
			publishAccountCreated(uow, accountID, "claim")
		}

		stamped, err := accounts.StampClaim(ctx, accountID, kind, now, now.Add(-kind.Cooldown()))
		if err != nil {
			return err
		}
		if !stamped {
			account, err := accounts.GetByID(ctx, accountID)
			if err != nil {
				return err
			}
			if account == nil {
				return entities.ErrAccountNotFound
			}
			result.Status = entities.ClaimStatusTooSoon
			result.NextClaimAt = entities.ClaimAvailableAt(account.LastClaim(kind), kind)
			result.Remaining = max(result.NextClaimAt.Sub(now), 0)
			return nil
		}

		balance, err := accounts.AddCash(ctx, accountID, amount)
		if err != nil {
			return err
		}
		var metadata map[string]any
		if len(tiers) > 0 {
			metadata = map[string]any{"tiers": tiers}
		}
		history := utils.NewBalanceChange(accountID, balance-amount, balance, entities.Reason(kind.TransactionType(), metadata))
		if err := utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history); err != nil {
			return err
		}

		result.Status = entities.ClaimStatusGranted
		result.Amount = amount
		result.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"kind":      kind,
		"status":    result.Status,
		"amount":    result.Amount,
	}).Debug("Claim evaluated")
	return result, nil
}
