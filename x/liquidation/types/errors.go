package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	// Authorization errors
	ErrUnauthorized = errors.Register(ModuleName, 2, "unauthorized")
	ErrNotBidOwner  = errors.Register(ModuleName, 3, "bid is not owned by sender")
	ErrNotCustody   = errors.Register(ModuleName, 4, "sender is not the custody of this collateral")

	// Validation errors
	ErrInvalidConfig                = errors.Register(ModuleName, 10, "invalid config")
	ErrInvalidSlot                  = errors.Register(ModuleName, 11, "premium slot out of range")
	ErrMaxSlotExceeded              = errors.Register(ModuleName, 12, "max slot exceeds the global cap")
	ErrInvalidPremiumRate           = errors.Register(ModuleName, 13, "premium rate implies a discount of 100% or more")
	ErrInvalidFees                  = errors.Register(ModuleName, 14, "bid fee and liquidator fee must sum below 1")
	ErrInvalidDenom                 = errors.Register(ModuleName, 15, "invalid denomination")
	ErrInvalidAmount                = errors.Register(ModuleName, 16, "amount must be positive")
	ErrInvalidPrice                 = errors.Register(ModuleName, 17, "invalid price")
	ErrCollateralAlreadyWhitelisted = errors.Register(ModuleName, 18, "collateral already whitelisted")
	ErrInvalidAddress               = errors.Register(ModuleName, 19, "invalid address")
	ErrDuplicateBid                 = errors.Register(ModuleName, 20, "bidder already holds a bid in this slot")
	ErrInvalidRequest               = errors.Register(ModuleName, 21, "invalid request")
	ErrBidCollateralMismatch        = errors.Register(ModuleName, 22, "bid belongs to a different collateral")
	ErrInvalidGenesis               = errors.Register(ModuleName, 23, "invalid genesis state")

	// Insufficient funds or state
	ErrRetractExceedsBid = errors.Register(ModuleName, 30, "retract amount exceeds bid balance")
	ErrNothingToRetract  = errors.Register(ModuleName, 31, "bid has nothing left to retract")
	ErrInsufficientBids  = errors.Register(ModuleName, 32, "not enough bids to execute this liquidation")
	ErrBidTooSmall       = errors.Register(ModuleName, 33, "bid amount too small to mint share")

	// Not found
	ErrCollateralNotWhitelisted = errors.Register(ModuleName, 50, "collateral not whitelisted")
	ErrBidNotFound              = errors.Register(ModuleName, 51, "bid not found")
	ErrBidPoolNotFound          = errors.Register(ModuleName, 52, "bid pool not found")

	// Timing errors
	ErrWaitPeriodNotExpired = errors.Register(ModuleName, 60, "wait period has not expired")
	ErrPriceTooOld          = errors.Register(ModuleName, 61, "price is older than the allowed timeframe")

	// Invariant violations
	ErrPoolInvariant = errors.Register(ModuleName, 70, "bid pool invariant violated")
	ErrBidInvariant  = errors.Register(ModuleName, 71, "bid invariant violated")
)
