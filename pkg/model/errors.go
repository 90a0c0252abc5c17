package model

import (
	"errors"
	"fmt"
)

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// ErrNotFound is returned when a player, lobby, or turn record does not exist
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when the ante exceeds the player's balance
// This is a normal business outcome and is safe to show the player
var ErrInsufficientFunds = UserError("insufficient funds")

// ErrInvalidState is returned when an operation is not allowed in the current state,
// e.g., dealing while a turn is in progress or resolving a turn twice
var ErrInvalidState = errors.New("invalid state")

// ErrStorageFailure wraps any error from the persistence layer
var ErrStorageFailure = errors.New("storage failure")

// ErrDuplicateKey happens if a unique value (email, lobby name) is already taken
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// InsufficientFundsError is ErrInsufficientFunds along with the amounts involved
type InsufficientFundsError struct {
	Balance int64
	Ante    int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: an ante of %d exceeds your balance of %d", e.Ante, e.Balance)
}

// Unwrap allows errors.Is(err, ErrInsufficientFunds)
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
