package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Config is the module singleton, updated by the owner only
type Config struct {
	Owner       string `json:"owner"`
	OracleAddr  string `json:"oracle_addr"`
	StableDenom string `json:"stable_denom"`

	// SafeRatio scales the borrow limit targeted after a partial liquidation
	SafeRatio math.LegacyDec `json:"safe_ratio"`
	// BidFee is the share of recovered stable routed to the fee address
	BidFee math.LegacyDec `json:"bid_fee"`
	// LiquidatorFee is the share of recovered stable paid to the liquidator
	LiquidatorFee math.LegacyDec `json:"liquidator_fee"`
	// LiquidationThreshold is the collateral value below which a position is
	// liquidated in full
	LiquidationThreshold math.Int `json:"liquidation_threshold"`

	PriceTimeframe uint64 `json:"price_timeframe"` // seconds
	WaitingPeriod  uint64 `json:"waiting_period"`  // seconds

	// SingleBidPerSlot rejects a second bid from the same bidder in a slot
	SingleBidPerSlot bool `json:"single_bid_per_slot"`
}

// DefaultConfig returns the genesis configuration. Ownership defaults to the
// gov module account.
func DefaultConfig() Config {
	return Config{
		Owner:                authtypes.NewModuleAddress("gov").String(),
		OracleAddr:           authtypes.NewModuleAddress("oracle").String(),
		StableDenom:          "uusd",
		SafeRatio:            math.LegacyNewDecWithPrec(8, 1),
		BidFee:               math.LegacyNewDecWithPrec(1, 2),
		LiquidatorFee:        math.LegacyZeroDec(),
		LiquidationThreshold: math.NewInt(500_000_000),
		PriceTimeframe:       60,
		WaitingPeriod:        600,
	}
}

// Validate checks the config bounds
func (c Config) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "owner: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(c.OracleAddr); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "oracle address: %s", err)
	}
	if err := sdk.ValidateDenom(c.StableDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "stable denom: %s", err)
	}
	if c.SafeRatio.IsNil() || !c.SafeRatio.IsPositive() || c.SafeRatio.GT(math.LegacyOneDec()) {
		return errorsmod.Wrap(ErrInvalidConfig, "safe ratio must be in (0, 1]")
	}
	if err := ValidateFees(c.BidFee, c.LiquidatorFee); err != nil {
		return err
	}
	if c.LiquidationThreshold.IsNil() || c.LiquidationThreshold.IsNegative() {
		return errorsmod.Wrap(ErrInvalidConfig, "liquidation threshold must not be negative")
	}
	if c.PriceTimeframe == 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "price timeframe must be positive")
	}
	return nil
}

// ValidateFees checks that the combined fee leaves a positive repay amount
func ValidateFees(bidFee, liquidatorFee math.LegacyDec) error {
	if bidFee.IsNil() || bidFee.IsNegative() {
		return errorsmod.Wrap(ErrInvalidFees, "bid fee must not be negative")
	}
	if liquidatorFee.IsNil() || liquidatorFee.IsNegative() {
		return errorsmod.Wrap(ErrInvalidFees, "liquidator fee must not be negative")
	}
	if bidFee.Add(liquidatorFee).GTE(math.LegacyOneDec()) {
		return errorsmod.Wrapf(ErrInvalidFees, "bid fee %s + liquidator fee %s", bidFee, liquidatorFee)
	}
	return nil
}

// FeeDeductor returns 1 - bid_fee - liquidator_fee
func (c Config) FeeDeductor() math.LegacyDec {
	return math.LegacyOneDec().Sub(c.BidFee).Sub(c.LiquidatorFee)
}
