package database

import (
	"errors"
	"fmt"
)

// Set of error categories. Every error produced by this package wraps
// exactly one of these so callers can decide how to react with errors.Is.
var (
	ErrValidation    = errors.New("validation")
	ErrAuthorization = errors.New("authorization")
	ErrInput         = errors.New("input")
)

// Set of input errors raised when building or updating a transaction.
var (
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrInput)
	ErrSelfTransfer         = fmt.Errorf("%w: recipient address is same as sender", ErrInput)
	ErrInsufficientFunds    = fmt.Errorf("%w: amount exceeds balance", ErrInput)
	ErrAmountExceedsBalance = fmt.Errorf("%w: amount exceeds remaining balance", ErrInput)
)

// Set of validation errors for transactions, blocks and chains.
var (
	ErrInvalidSignature     = fmt.Errorf("%w: invalid signature", ErrAuthorization)
	ErrInvalidTransaction   = fmt.Errorf("%w: invalid transaction", ErrValidation)
	ErrInvalidGenesis       = fmt.Errorf("%w: chain does not start with the genesis block", ErrValidation)
	ErrInvalidBlock         = fmt.Errorf("%w: invalid block", ErrValidation)
	ErrDuplicateTransaction = fmt.Errorf("%w: an identical transaction appears more than once in the block", ErrValidation)
	ErrMultipleRewards      = fmt.Errorf("%w: miner rewards exceed limit", ErrValidation)
	ErrInvalidReward        = fmt.Errorf("%w: miner reward amount is invalid", ErrValidation)
	ErrChainNotLonger       = fmt.Errorf("%w: the incoming chain must be longer", ErrValidation)
)
