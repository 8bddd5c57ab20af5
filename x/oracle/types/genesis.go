package types

import (
	errorsmod "cosmossdk.io/errors"
)

// GenesisState is the oracle genesis state
type GenesisState struct {
	Params Params      `json:"params"`
	Prices []PriceInfo `json:"prices"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Prices: []PriceInfo{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(gs.Prices))
	for _, p := range gs.Prices {
		if !gs.Params.IsFeeder(p.Feeder) {
			return errorsmod.Wrapf(ErrUnauthorizedFeeder, "price of %s by %s", p.Denom, p.Feeder)
		}
		if p.Price.IsNil() || !p.Price.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidPrice, "%s by %s", p.Denom, p.Feeder)
		}
		id := p.Feeder + "/" + p.Denom
		if seen[id] {
			return errorsmod.Wrapf(ErrInvalidPrice, "duplicate price %s", id)
		}
		seen[id] = true
	}
	return nil
}
