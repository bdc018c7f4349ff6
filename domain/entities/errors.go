package entities

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy for the economy core. Callers classify failures with
// errors.Is; refinements below wrap one of these roots.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrItemNotOwned      = errors.New("item not owned")
	ErrSessionConflict   = errors.New("game already in progress")
	ErrStorageFailure    = errors.New("storage failure")
)

var (
	ErrInvalidBet         = fmt.Errorf("%w: invalid bet", ErrInvalidArgument)
	ErrInvalidTarget      = fmt.Errorf("%w: unknown roulette target", ErrInvalidArgument)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrItemExists         = fmt.Errorf("%w: item already exists", ErrInvalidArgument)
	ErrSelfTransfer       = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidArgument)
	ErrNoActiveSession    = errors.New("no active game")
	ErrCooldownActive     = errors.New("cooldown active")
	ErrNotPrivileged      = errors.New("operation requires elevated privileges")
	ErrRenderTargetExists = errors.New("leaderboard render target already configured")
)

// domainErrors are the failures a service may return unchanged. Anything
// else coming out of a unit of work is a storage failure.
var domainErrors = []error{
	ErrInvalidArgument,
	ErrInsufficientFunds,
	ErrAccountNotFound,
	ErrItemNotFound,
	ErrItemNotOwned,
	ErrSessionConflict,
	ErrStorageFailure,
	ErrNoActiveSession,
	ErrCooldownActive,
	ErrNotPrivileged,
	ErrRenderTargetExists,
}

// IsDomainError reports whether err belongs to the economy error taxonomy
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the caller may retry the request
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// StorageError wraps a persistence failure. The transaction that produced it
// has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a storage failure of the named operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorageFailure) hold for every StorageError
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// CooldownError is returned when a command is still cooling down
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, %s remaining", e.Remaining.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}
