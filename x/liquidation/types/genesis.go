package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// GenesisState is the module's genesis state
type GenesisState struct {
	Config             Config              `json:"config"`
	Collaterals        []CollateralInfo    `json:"collaterals"`
	BidPools           []BidPool           `json:"bid_pools"`
	Bids               []Bid               `json:"bids"`
	EpochRecords       []EpochRecord       `json:"epoch_records"`
	NextBidIdx         uint64              `json:"next_bid_idx"`
	LiquidationRecords []LiquidationRecord `json:"liquidation_records"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Config:             DefaultConfig(),
		Collaterals:        []CollateralInfo{},
		BidPools:           []BidPool{},
		Bids:               []Bid{},
		EpochRecords:       []EpochRecord{},
		NextBidIdx:         1,
		LiquidationRecords: []LiquidationRecord{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Config.Validate(); err != nil {
		return err
	}

	infos := make(map[string]CollateralInfo, len(gs.Collaterals))
	for _, info := range gs.Collaterals {
		if _, dup := infos[info.CollateralToken]; dup {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate collateral %s", info.CollateralToken)
		}
		if err := info.Validate(); err != nil {
			return err
		}
		infos[info.CollateralToken] = info
	}

	pools := make(map[string]BidPool, len(gs.BidPools))
	for _, pool := range gs.BidPools {
		info, ok := infos[pool.CollateralToken]
		if !ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "pool of unknown collateral %s", pool.CollateralToken)
		}
		if err := info.ValidateSlot(pool.Slot); err != nil {
			return err
		}
		key := poolID(pool.CollateralToken, pool.Slot)
		if _, dup := pools[key]; dup {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate pool %s", key)
		}
		if pool.TotalBidAmount.IsNegative() || pool.TotalShare.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "pool %s has negative balance", key)
		}
		if pool.TotalShare.IsZero() && !pool.TotalBidAmount.IsZero() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "pool %s holds stable without share", key)
		}
		pools[key] = pool
	}

	seen := make(map[uint64]bool, len(gs.Bids))
	for _, bid := range gs.Bids {
		if bid.Idx == 0 || bid.Idx >= gs.NextBidIdx {
			return errorsmod.Wrapf(ErrInvalidGenesis, "bid idx %d outside [1, %d)", bid.Idx, gs.NextBidIdx)
		}
		if seen[bid.Idx] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate bid %d", bid.Idx)
		}
		seen[bid.Idx] = true
		if _, ok := infos[bid.CollateralToken]; !ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "bid %d of unknown collateral %s", bid.Idx, bid.CollateralToken)
		}
		if bid.Share.IsPositive() && !bid.IsActive() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "waiting bid %d holds share", bid.Idx)
		}
		if bid.Amount.IsPositive() && bid.Share.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "bid %d holds both stable and share", bid.Idx)
		}
		if bid.IsActive() {
			if _, ok := pools[poolID(bid.CollateralToken, bid.PremiumSlot)]; !ok {
				return errorsmod.Wrapf(ErrInvalidGenesis, "active bid %d without pool", bid.Idx)
			}
		}
	}
	return nil
}

func poolID(collateral string, slot uint32) string {
	return fmt.Sprintf("%s/%d", collateral, slot)
}
