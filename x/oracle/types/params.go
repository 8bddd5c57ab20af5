package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params lists the addresses allowed to post prices and the denom every
// price is quoted in
type Params struct {
	Feeders   []string `json:"feeders"`
	BaseDenom string   `json:"base_denom"`
}

// DefaultParams returns params with no feeders quoting in uusd
func DefaultParams() Params {
	return Params{
		Feeders:   []string{},
		BaseDenom: "uusd",
	}
}

// Validate checks feeder addresses and the base denom
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.BaseDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidParams, "base denom: %s", err)
	}
	seen := make(map[string]bool, len(p.Feeders))
	for _, feeder := range p.Feeders {
		if _, err := sdk.AccAddressFromBech32(feeder); err != nil {
			return errorsmod.Wrapf(ErrInvalidParams, "feeder %q: %s", feeder, err)
		}
		if seen[feeder] {
			return errorsmod.Wrapf(ErrInvalidParams, "duplicate feeder %s", feeder)
		}
		seen[feeder] = true
	}
	return nil
}

// IsFeeder reports whether addr may post prices
func (p Params) IsFeeder(addr string) bool {
	for _, feeder := range p.Feeders {
		if feeder == addr {
			return true
		}
	}
	return false
}
