package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// QueryServer defines the liquidation QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

func clampLimit(limit uint32) int {
	switch {
	case limit == 0:
		return types.DefaultQueryLimit
	case limit > types.MaxQueryLimit:
		return types.MaxQueryLimit
	default:
		return int(limit)
	}
}

// Config returns the module config
func (q *QueryServer) Config(ctx context.Context) (*types.Config, error) {
	cfg, err := q.keeper.GetConfig(sdk.UnwrapSDKContext(ctx))
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CollateralInfo returns the registry entry of a collateral
func (q *QueryServer) CollateralInfo(ctx context.Context, collateral string) (*types.CollateralInfo, error) {
	info, err := q.keeper.GetCollateralInfo(sdk.UnwrapSDKContext(ctx), collateral)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CollateralInfos returns a page of registry entries, shorter denoms first.
// See GetCollateralInfos for the ordering.
func (q *QueryServer) CollateralInfos(ctx context.Context, startAfter string, limit uint32) ([]types.CollateralInfo, error) {
	return q.keeper.GetCollateralInfos(sdk.UnwrapSDKContext(ctx), startAfter, clampLimit(limit)), nil
}

// Bid returns a bid with its pending collateral projected to the current
// pool state. Nothing is written.
func (q *QueryServer) Bid(ctx context.Context, idx uint64) (*types.Bid, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	bid, err := q.keeper.GetBid(sdkCtx, idx)
	if err != nil {
		return nil, err
	}
	return q.keeper.projectBid(sdkCtx, bid)
}

// BidsByUser returns a page of a bidder's bids for a collateral
func (q *QueryServer) BidsByUser(ctx context.Context, collateral, bidder string, startAfter uint64, limit uint32) ([]*types.Bid, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	bids := q.keeper.GetBidsByUser(sdkCtx, collateral, bidder, startAfter, clampLimit(limit))
	for i, bid := range bids {
		projected, err := q.keeper.projectBid(sdkCtx, bid)
		if err != nil {
			return nil, err
		}
		bids[i] = projected
	}
	return bids, nil
}

// BidPool returns the pool of a slot
func (q *QueryServer) BidPool(ctx context.Context, collateral string, slot uint32) (*types.BidPool, error) {
	return q.keeper.GetBidPool(sdk.UnwrapSDKContext(ctx), collateral, slot)
}

// BidPoolsByCollateral returns a page of a collateral's pools by slot
func (q *QueryServer) BidPoolsByCollateral(ctx context.Context, collateral string, startAfter *uint32, limit uint32) ([]*types.BidPool, error) {
	return q.keeper.GetBidPoolsByCollateral(sdk.UnwrapSDKContext(ctx), collateral, startAfter, clampLimit(limit)), nil
}

// TotalBids returns the active stable queued for a collateral
func (q *QueryServer) TotalBids(ctx context.Context, collateral string) (math.Int, error) {
	return q.keeper.TotalActiveBids(sdk.UnwrapSDKContext(ctx), collateral), nil
}

// LiquidationRecords returns a page of execution history
func (q *QueryServer) LiquidationRecords(ctx context.Context, startAfter uint64, limit uint32) ([]types.LiquidationRecord, error) {
	return q.keeper.GetLiquidationRecords(sdk.UnwrapSDKContext(ctx), startAfter, clampLimit(limit)), nil
}

// LiquidationAmount simulates how much collateral a position must sell
func (q *QueryServer) LiquidationAmount(ctx context.Context, req types.LiquidationAmountRequest) ([]types.CollateralAmount, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cfg, err := q.keeper.GetConfig(sdkCtx)
	if err != nil {
		return nil, err
	}
	infos := make(map[string]types.CollateralInfo, len(req.Collaterals))
	for _, c := range req.Collaterals {
		info, err := q.keeper.GetCollateralInfo(sdkCtx, c.Denom)
		if err != nil {
			return nil, err
		}
		infos[c.Denom] = info
	}
	return types.ComputeLiquidationAmount(cfg, infos, req)
}

// projectBid returns a copy of bid accrued against its pool
func (k *Keeper) projectBid(ctx sdk.Context, bid *types.Bid) (*types.Bid, error) {
	if !bid.IsActive() {
		return bid, nil
	}
	projected := *bid
	if _, err := k.CheckpointBid(ctx, &projected); err != nil {
		return nil, err
	}
	return &projected, nil
}
