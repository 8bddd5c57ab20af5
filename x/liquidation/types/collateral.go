package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// CollateralInfo is the registry entry of a whitelisted collateral token
type CollateralInfo struct {
	CollateralToken string `json:"collateral_token"`
	// BidThreshold is the aggregate active bid amount under which new bids
	// skip the waiting period
	BidThreshold       math.Int       `json:"bid_threshold"`
	MaxSlot            uint32         `json:"max_slot"`
	PremiumRatePerSlot math.LegacyDec `json:"premium_rate_per_slot"`
	// Custody is the only address allowed to execute liquidations of this
	// collateral
	Custody string `json:"custody"`
}

// NewCollateralInfo creates a registry entry
func NewCollateralInfo(collateral, custody string, bidThreshold math.Int, maxSlot uint32, premiumRatePerSlot math.LegacyDec) CollateralInfo {
	return CollateralInfo{
		CollateralToken:    collateral,
		Custody:            custody,
		BidThreshold:       bidThreshold,
		MaxSlot:            maxSlot,
		PremiumRatePerSlot: premiumRatePerSlot,
	}
}

// PremiumRate returns the discount of a slot
func (c CollateralInfo) PremiumRate(slot uint32) math.LegacyDec {
	return c.PremiumRatePerSlot.MulInt64(int64(slot))
}

// MaxPremiumRate returns the discount of the highest slot
func (c CollateralInfo) MaxPremiumRate() math.LegacyDec {
	if c.MaxSlot == 0 {
		return math.LegacyZeroDec()
	}
	return c.PremiumRate(c.MaxSlot - 1)
}

// ValidateSlot checks slot < max_slot
func (c CollateralInfo) ValidateSlot(slot uint32) error {
	if slot >= c.MaxSlot {
		return errorsmod.Wrapf(ErrInvalidSlot, "slot %d, max slot %d", slot, c.MaxSlot)
	}
	return nil
}

// Validate checks the registry bounds
func (c CollateralInfo) Validate() error {
	if err := sdk.ValidateDenom(c.CollateralToken); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "collateral token: %s", err)
	}
	if c.BidThreshold.IsNil() || c.BidThreshold.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "bid threshold must not be negative")
	}
	if _, err := sdk.AccAddressFromBech32(c.Custody); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "custody: %s", err)
	}
	return ValidateSlotPremium(c.MaxSlot, c.PremiumRatePerSlot)
}

// ValidateSlotPremium rejects any slot layout whose premium could reach 100%
func ValidateSlotPremium(maxSlot uint32, premiumRatePerSlot math.LegacyDec) error {
	if maxSlot == 0 || maxSlot > MaxSlotCap {
		return errorsmod.Wrapf(ErrMaxSlotExceeded, "max slot %d must be in [1, %d]", maxSlot, MaxSlotCap)
	}
	if premiumRatePerSlot.IsNil() || premiumRatePerSlot.IsNegative() {
		return errorsmod.Wrap(ErrInvalidPremiumRate, "premium rate per slot must not be negative")
	}
	if premiumRatePerSlot.MulInt64(int64(maxSlot)).GTE(math.LegacyOneDec()) {
		return errorsmod.Wrapf(ErrInvalidPremiumRate, "%d slots x %s", maxSlot, premiumRatePerSlot)
	}
	return nil
}
