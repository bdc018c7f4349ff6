package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"
	"clover/domain/utils"

	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

type ledgerService struct {
	uowFactory interfaces.UnitOfWorkFactory
	now        func() time.Time
}

// NewLedgerService creates the ledger over the given unit of work factory
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory) interfaces.LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *ledgerService) EnsureAccount(ctx context.Context, accountID int64) (bool, error) {
	var inserted bool
	err := inTransaction(ctx, s.uowFactory, "ensure account", func(uow interfaces.UnitOfWork) error {
		var err error
		inserted, err = uow.AccountRepository().Ensure(ctx, accountID)
		if err != nil {
			return err
		}
		if inserted {
			publishAccountCreated(uow, accountID, "join")
		}
		return nil
	})
	return inserted, err
}

// RemoveAccount deletes the account's inventory, then its history, then the
// account itself, all in one transaction.
func (s *ledgerService) RemoveAccount(ctx context.Context, accountID int64) error {
	return inTransaction(ctx, s.uowFactory, "remove account", func(uow interfaces.UnitOfWork) error {
		locked, err := uow.AccountRepository().LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return entities.ErrAccountNotFound
		}

		items, err := uow.InventoryRepository().DeleteByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		history, err := uow.BalanceHistoryRepository().DeleteByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if _, err := uow.AccountRepository().Delete(ctx, accountID); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"accountID":     accountID,
			"inventoryRows": items,
			"historyRows":   history,
			"finalBalance":  locked[0].Cash,
		}).Info("Removed account")

		if err := uow.EventBus().Publish(events.AccountRemovedEvent{AccountID: accountID, FinalBalance: locked[0].Cash}); err != nil {
			log.WithError(err).Error("Failed to publish account removed event")
		}
		return nil
	})
}

func (s *ledgerService) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	var account *entities.Account
	err := inTransaction(ctx, s.uowFactory, "get account", func(uow interfaces.UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return entities.ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) Balance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Cash, nil
}

func (s *ledgerService) Credit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}
	if reason.Type == "" {
		reason.Type = entities.TransactionTypeCredit
	}

	var balance int64
	err := inTransaction(ctx, s.uowFactory, "credit", func(uow interfaces.UnitOfWork) error {
		var err error
		balance, err = uow.AccountRepository().AddCash(ctx, accountID, amount)
		if err != nil {
			return err
		}
		history := utils.NewBalanceChange(accountID, balance-amount, balance, reason)
		return utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history)
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Debit subtracts amount only if the account can cover it. The check and the
// subtraction are one conditional statement, so concurrent debits against the
// same account can never overdraw it.
func (s *ledgerService) Debit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}
	if reason.Type == "" {
		reason.Type = entities.TransactionTypeDebit
	}

	var balance int64
	err := inTransaction(ctx, s.uowFactory, "debit", func(uow interfaces.UnitOfWork) error {
		var err error
		balance, err = uow.AccountRepository().DeductCash(ctx, accountID, amount)
		if err != nil {
			return err
		}
		history := utils.NewBalanceChange(accountID, balance+amount, balance, reason)
		return utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history)
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *ledgerService) SetCash(ctx context.Context, accountID int64, cash int64) (int64, error) {
	if cash < 0 {
		return 0, entities.ErrInvalidAmount
	}

	err := inTransaction(ctx, s.uowFactory, "set cash", func(uow interfaces.UnitOfWork) error {
		previous, err := uow.AccountRepository().SetCash(ctx, accountID, cash)
		if err != nil {
			return err
		}
		if previous == cash {
			return nil
		}
		history := utils.NewBalanceChange(accountID, previous, cash, entities.Reason(entities.TransactionTypeAdminReset, nil))
		return utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history)
	})
	if err != nil {
		return 0, err
	}
	return cash, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID int64, amount int64) (*entities.TransferResult, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, entities.ErrSelfTransfer
	}

	result := &entities.TransferResult{FromAccountID: fromID, ToAccountID: toID, Amount: amount}
	err := inTransaction(ctx, s.uowFactory, "transfer", func(uow interfaces.UnitOfWork) error {
		accounts := uow.AccountRepository()

		locked, err := accounts.LockForUpdate(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			return entities.ErrAccountNotFound
		}

		if result.FromBalance, err = accounts.DeductCash(ctx, fromID, amount); err != nil {
			return err
		}
		if result.ToBalance, err = accounts.AddCash(ctx, toID, amount); err != nil {
			return err
		}

		out := utils.NewBalanceChange(fromID, result.FromBalance+amount, result.FromBalance,
			entities.Reason(entities.TransactionTypeTransferOut, map[string]any{"recipient_id": toID}))
		if err := utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), out); err != nil {
			return err
		}
		in := utils.NewBalanceChange(toID, result.ToBalance-amount, result.ToBalance,
			entities.Reason(entities.TransactionTypeTransferIn, map[string]any{"sender_id": fromID}))
		return utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), in)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustXP adds delta unconditionally; XP is allowed to go negative.
func (s *ledgerService) AdjustXP(ctx context.Context, accountID int64, delta int64) (int64, error) {
	var xp int64
	err := inTransaction(ctx, s.uowFactory, "adjust xp", func(uow interfaces.UnitOfWork) error {
		var err error
		xp, err = uow.AccountRepository().AddXP(ctx, accountID, delta)
		return err
	})
	if err != nil {
		return 0, err
	}
	return xp, nil
}

func (s *ledgerService) RecordMessage(ctx context.Context, accountID int64) error {
	return inTransaction(ctx, s.uowFactory, "record message", func(uow interfaces.UnitOfWork) error {
		inserted, err := uow.AccountRepository().RecordMessage(ctx, accountID, entities.MessageXP, s.now())
		if err != nil {
			return err
		}
		if inserted {
			publishAccountCreated(uow, accountID, "message")
		}
		return nil
	})
}

func (s *ledgerService) RecordVoiceMinutes(ctx context.Context, accountID int64, minutes float64) (int64, error) {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("%w: voice minutes must be a non-negative number", entities.ErrInvalidArgument)
	}

	xp := entities.VoiceXP(minutes)
	err := inTransaction(ctx, s.uowFactory, "record voice", func(uow interfaces.UnitOfWork) error {
		inserted, err := uow.AccountRepository().RecordVoice(ctx, accountID, minutes, xp, s.now())
		if err != nil {
			return err
		}
		if inserted {
			publishAccountCreated(uow, accountID, "voice")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return xp, nil
}

// PurchaseItem debits the price and increments the inventory in one
// transaction; either both happen or neither does.
func (s *ledgerService) PurchaseItem(ctx context.Context, accountID int64, itemName string) (*entities.PurchaseResult, error) {
	result := &entities.PurchaseResult{}
	err := inTransaction(ctx, s.uowFactory, "purchase item", func(uow interfaces.UnitOfWork) error {
		item, err := uow.ShopItemRepository().GetByName(ctx, itemName)
		if err != nil {
			return err
		}
		if item == nil {
			return entities.ErrItemNotFound
		}
		result.Item = item

		// A zero amount still checks that the account exists.
		if result.Balance, err = uow.AccountRepository().DeductCash(ctx, accountID, item.Price); err != nil {
			return err
		}
		if result.Quantity, err = uow.InventoryRepository().Increment(ctx, accountID, item.ID, 1); err != nil {
			return err
		}

		if item.Price == 0 {
			return nil
		}
		history := utils.NewBalanceChange(accountID, result.Balance+item.Price, result.Balance,
			entities.Reason(entities.TransactionTypePurchase, map[string]any{"item_id": item.ID, "item_name": item.Name}))
		return utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UseItem returns the item's entitlement. Consumables lose one unit and their
// row is removed when the last unit is used.
func (s *ledgerService) UseItem(ctx context.Context, accountID int64, itemName string) (*entities.UseResult, error) {
	result := &entities.UseResult{}
	err := inTransaction(ctx, s.uowFactory, "use item", func(uow interfaces.UnitOfWork) error {
		item, err := uow.ShopItemRepository().GetByName(ctx, itemName)
		if err != nil {
			return err
		}
		if item == nil {
			return entities.ErrItemNotFound
		}

		inventory := uow.InventoryRepository()
		quantity, err := inventory.GetQuantityForUpdate(ctx, accountID, item.ID)
		if err != nil {
			return err
		}
		if quantity <= 0 {
			return entities.ErrItemNotOwned
		}

		result.Item = item
		result.Entitlement = item.EntitlementID
		result.Remaining = quantity
		if !item.Consumable {
			return nil
		}

		result.Consumed = true
		result.Remaining = quantity - 1
		if result.Remaining == 0 {
			return inventory.Delete(ctx, accountID, item.ID)
		}
		return inventory.SetQuantity(ctx, accountID, item.ID, result.Remaining)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) GrantItem(ctx context.Context, accountID int64, itemName string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	var total int64
	err := inTransaction(ctx, s.uowFactory, "grant item", func(uow interfaces.UnitOfWork) error {
		item, err := uow.ShopItemRepository().GetByName(ctx, itemName)
		if err != nil {
			return err
		}
		if item == nil {
			return entities.ErrItemNotFound
		}
		account, err := uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return entities.ErrAccountNotFound
		}
		total, err = uow.InventoryRepository().Increment(ctx, accountID, item.ID, quantity)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ledgerService) Inventory(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	err := inTransaction(ctx, s.uowFactory, "list inventory", func(uow interfaces.UnitOfWork) error {
		var err error
		items, err = uow.InventoryRepository().ListByAccount(ctx, accountID)
		return err
	})
	return items, err
}

func (s *ledgerService) Catalog(ctx context.Context) ([]*entities.ShopItem, error) {
	var items []*entities.ShopItem
	err := inTransaction(ctx, s.uowFactory, "list catalog", func(uow interfaces.UnitOfWork) error {
		var err error
		items, err = uow.ShopItemRepository().List(ctx)
		return err
	})
	return items, err
}

func (s *ledgerService) AddShopItem(ctx context.Context, item *entities.ShopItem, privileged bool) error {
	if !privileged {
		return entities.ErrNotPrivileged
	}
	if err := item.Validate(); err != nil {
		return err
	}
	return inTransaction(ctx, s.uowFactory, "add shop item", func(uow interfaces.UnitOfWork) error {
		return uow.ShopItemRepository().Create(ctx, item)
	})
}

// DeleteShopItem removes the item and every inventory entry holding it.
// Owned copies vanish with the catalog entry.
func (s *ledgerService) DeleteShopItem(ctx context.Context, name string, privileged bool) error {
	if !privileged {
		return entities.ErrNotPrivileged
	}
	return inTransaction(ctx, s.uowFactory, "delete shop item", func(uow interfaces.UnitOfWork) error {
		item, err := uow.ShopItemRepository().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if item == nil {
			return entities.ErrItemNotFound
		}

		removed, err := uow.InventoryRepository().DeleteByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if _, err := uow.ShopItemRepository().Delete(ctx, item.ID); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"itemID":        item.ID,
			"itemName":      item.Name,
			"inventoryRows": removed,
		}).Info("Deleted shop item")
		return nil
	})
}

func (s *ledgerService) History(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var history []*entities.BalanceHistory
	err := inTransaction(ctx, s.uowFactory, "balance history", func(uow interfaces.UnitOfWork) error {
		var err error
		history, err = uow.BalanceHistoryRepository().GetByAccount(ctx, accountID, limit)
		return err
	})
	return history, err
}

func publishAccountCreated(uow interfaces.UnitOfWork, accountID int64, source string) {
	log.WithFields(log.Fields{
		"accountID": accountID,
		"source":    source,
	}).Info("Provisioned account")
	if err := uow.EventBus().Publish(events.AccountCreatedEvent{AccountID: accountID, Source: source}); err != nil {
		log.WithError(err).Error("Failed to publish account created event")
	}
}
