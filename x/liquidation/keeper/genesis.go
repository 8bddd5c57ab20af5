package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// InitGenesis loads the module state
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	k.SetConfig(ctx, gs.Config)
	for _, info := range gs.Collaterals {
		k.SetCollateralInfo(ctx, info)
	}
	for i := range gs.BidPools {
		k.SetBidPool(ctx, &gs.BidPools[i])
	}
	for i := range gs.Bids {
		k.SetBid(ctx, &gs.Bids[i])
	}
	for _, record := range gs.EpochRecords {
		k.SetEpochRecord(ctx, record)
	}

	next := gs.NextBidIdx
	if next == 0 {
		next = 1
	}
	k.SetNextBidIdx(ctx, next)

	var lastSeq uint64
	for i := range gs.LiquidationRecords {
		record := &gs.LiquidationRecords[i]
		k.SetLiquidationRecord(ctx, record)
		if record.Seq > lastSeq {
			lastSeq = record.Seq
		}
	}
	k.GetStore(ctx).Set(types.LiquidationSequenceKey, types.Uint64ToBytes(lastSeq+1))
}

// ExportGenesis exports the module state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		cfg = types.DefaultConfig()
	}
	return &types.GenesisState{
		Config:             cfg,
		Collaterals:        k.GetCollateralInfos(ctx, "", 0),
		BidPools:           k.GetAllBidPools(ctx),
		Bids:               k.GetAllBids(ctx),
		EpochRecords:       k.GetAllEpochRecords(ctx),
		NextBidIdx:         k.GetNextBidIdx(ctx),
		LiquidationRecords: k.GetLiquidationRecords(ctx, 0, 0),
	}
}
