package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clover/database"
	"clover/domain/entities"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `
	id, cash, xp, messages_sent, minutes_in_voice,
	last_message_time, last_voice_time, last_daily_claim, last_weekly_claim,
	created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryScoped creates a new account repository bound to a transaction
func NewAccountRepositoryScoped(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// Ensure inserts a zeroed account unless one exists
func (r *AccountRepository) Ensure(ctx context.Context, accountID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO accounts (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to ensure account %d: %w", accountID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves an account, returning nil if it does not exist
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

// AddCash credits the account and returns the new balance
func (r *AccountRepository) AddCash(ctx context.Context, accountID int64, amount int64) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx, `
		UPDATE accounts
		SET cash = cash + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING cash
	`, accountID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entities.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add cash to account %d: %w", accountID, err)
	}
	return balance, nil
}

// DeductCash debits the account in one conditional statement. When no row
// qualifies the account is either missing or short of funds.
func (r *AccountRepository) DeductCash(ctx context.Context, accountID int64, amount int64) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx, `
		UPDATE accounts
		SET cash = cash - $2, updated_at = NOW()
		WHERE id = $1 AND cash >= $2
		RETURNING cash
	`, accountID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to deduct cash from account %d: %w", accountID, err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check account %d: %w", accountID, err)
	}
	if !exists {
		return 0, entities.ErrAccountNotFound
	}
	return 0, entities.ErrInsufficientFunds
}

// SetCash overwrites the balance and returns the previous one
func (r *AccountRepository) SetCash(ctx context.Context, accountID int64, cash int64) (int64, error) {
	var previous int64
	err := r.q.QueryRow(ctx, `
		WITH old AS (
			SELECT id, cash FROM accounts WHERE id = $1 FOR UPDATE
		)
		UPDATE accounts a
		SET cash = $2, updated_at = NOW()
		FROM old
		WHERE a.id = old.id
		RETURNING old.cash
	`, accountID, cash).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entities.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set cash for account %d: %w", accountID, err)
	}
	return previous, nil
}

// AddXP adjusts experience by delta with no lower bound
func (r *AccountRepository) AddXP(ctx context.Context, accountID int64, delta int64) (int64, error) {
	var xp int64
	err := r.q.QueryRow(ctx, `
		UPDATE accounts
		SET xp = xp + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING xp
	`, accountID, delta).Scan(&xp)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entities.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add xp to account %d: %w", accountID, err)
	}
	return xp, nil
}

// RecordMessage counts one message, creating the account on first sight
func (r *AccountRepository) RecordMessage(ctx context.Context, accountID int64, xp int64, at time.Time) (bool, error) {
	var inserted bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO accounts (id, xp, messages_sent, last_message_time)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (id) DO UPDATE
		SET xp = accounts.xp + EXCLUDED.xp,
		    messages_sent = accounts.messages_sent + 1,
		    last_message_time = EXCLUDED.last_message_time,
		    updated_at = NOW()
		RETURNING (xmax = 0)
	`, accountID, xp, at).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to record message for account %d: %w", accountID, err)
	}
	return inserted, nil
}

// RecordVoice adds voice minutes and their xp, creating the account on first sight
func (r *AccountRepository) RecordVoice(ctx context.Context, accountID int64, minutes float64, xp int64, at time.Time) (bool, error) {
	var inserted bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO accounts (id, xp, minutes_in_voice, last_voice_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET xp = accounts.xp + EXCLUDED.xp,
		    minutes_in_voice = accounts.minutes_in_voice + EXCLUDED.minutes_in_voice,
		    last_voice_time = EXCLUDED.last_voice_time,
		    updated_at = NOW()
		RETURNING (xmax = 0)
	`, accountID, xp, minutes, at).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to record voice for account %d: %w", accountID, err)
	}
	return inserted, nil
}

// StampClaim records a claim at now unless the previous one is more recent
// than notBefore. It reports false when the gate is closed.
func (r *AccountRepository) StampClaim(ctx context.Context, accountID int64, kind entities.ClaimKind, now, notBefore time.Time) (bool, error) {
	var query string
	switch kind {
	case entities.ClaimKindDaily:
		query = `
			UPDATE accounts SET last_daily_claim = $2, updated_at = NOW()
			WHERE id = $1 AND (last_daily_claim IS NULL OR last_daily_claim <= $3)`
	case entities.ClaimKindWeekly:
		query = `
			UPDATE accounts SET last_weekly_claim = $2, updated_at = NOW()
			WHERE id = $1 AND (last_weekly_claim IS NULL OR last_weekly_claim <= $3)`
	default:
		return false, fmt.Errorf("%w: unknown claim kind %q", entities.ErrInvalidArgument, kind)
	}

	tag, err := r.q.Exec(ctx, query, accountID, now, notBefore)
	if err != nil {
		return false, fmt.Errorf("failed to stamp %s claim for account %d: %w", kind, accountID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// LockForUpdate row-locks the given accounts in ascending id order so that
// concurrent multi-account operations cannot deadlock. Missing ids are
// simply absent from the result.
func (r *AccountRepository) LockForUpdate(ctx context.Context, accountIDs ...int64) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := r.q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts %v: %w", accountIDs, err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes the account row. Dependent rows go with it via cascade.
func (r *AccountRepository) Delete(ctx context.Context, accountID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete account %d: %w", accountID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var a entities.Account
	err := row.Scan(
		&a.ID,
		&a.Cash,
		&a.XP,
		&a.MessagesSent,
		&a.MinutesInVoice,
		&a.LastMessageTime,
		&a.LastVoiceTime,
		&a.LastDailyClaim,
		&a.LastWeeklyClaim,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
