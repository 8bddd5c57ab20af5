package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// SetBidPool saves a bid pool
func (k *Keeper) SetBidPool(ctx sdk.Context, pool *types.BidPool) {
	setJSON(k.GetStore(ctx), types.BidPoolKey(pool.CollateralToken, pool.Slot), pool)
}

// GetBidPool returns the pool of a (collateral, slot) pair
func (k *Keeper) GetBidPool(ctx sdk.Context, collateral string, slot uint32) (*types.BidPool, error) {
	pool, ok := getJSON[types.BidPool](k.GetStore(ctx), types.BidPoolKey(collateral, slot))
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrBidPoolNotFound, "%s slot %d", collateral, slot)
	}
	return pool, nil
}

// GetOrInitBidPool returns the pool of a slot, creating it at the slot's
// premium rate when missing
func (k *Keeper) GetOrInitBidPool(ctx sdk.Context, info types.CollateralInfo, slot uint32) *types.BidPool {
	if pool, err := k.GetBidPool(ctx, info.CollateralToken, slot); err == nil {
		return pool
	}
	return types.NewBidPool(info.CollateralToken, slot, info.PremiumRate(slot))
}

// GetBidPoolsByCollateral returns the pools of a collateral in ascending slot
// order, starting after startAfter when set, up to limit pools (0 means all)
func (k *Keeper) GetBidPoolsByCollateral(ctx sdk.Context, collateral string, startAfter *uint32, limit int) []*types.BidPool {
	var after []byte
	if startAfter != nil {
		after = types.SlotKey(*startAfter)
	}
	pools := []*types.BidPool{}
	iterateJSON(k.GetStore(ctx), types.BidPoolPrefix(collateral), after, func(_ []byte, pool *types.BidPool) bool {
		pools = append(pools, pool)
		return limit > 0 && len(pools) >= limit
	})
	return pools
}

// GetAllBidPools returns every pool of every collateral
func (k *Keeper) GetAllBidPools(ctx sdk.Context) []types.BidPool {
	pools := []types.BidPool{}
	iterateJSON(k.GetStore(ctx), types.BidPoolKeyPrefix, nil, func(_ []byte, pool *types.BidPool) bool {
		pools = append(pools, *pool)
		return false
	})
	return pools
}

// TotalActiveBids returns the stable held by every pool of a collateral
func (k *Keeper) TotalActiveBids(ctx sdk.Context, collateral string) math.Int {
	total := math.ZeroInt()
	iterateJSON(k.GetStore(ctx), types.BidPoolPrefix(collateral), nil, func(_ []byte, pool *types.BidPool) bool {
		total = total.Add(pool.TotalBidAmount)
		return false
	})
	return total
}

// DepositToPool mints share for amount. A drained pool first retires its
// epoch so the new stable is not diluted by worthless share.
func (k *Keeper) DepositToPool(ctx sdk.Context, pool *types.BidPool, amount math.Int) (math.LegacyDec, error) {
	if pool.IsDrained() {
		record := pool.RetireEpoch()
		k.SetEpochRecord(ctx, record)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRetireEpoch,
				sdk.NewAttribute(types.AttributeKeyCollateral, record.CollateralToken),
				sdk.NewAttribute(types.AttributeKeySlot, strconv.FormatUint(uint64(record.Slot), 10)),
				sdk.NewAttribute(types.AttributeKeyEpoch, strconv.FormatUint(record.Epoch, 10)),
				sdk.NewAttribute(types.AttributeKeyAmount, record.Residual.String()),
			),
		)
		k.logger.Info("Bid pool epoch retired",
			"collateral", record.CollateralToken,
			"slot", record.Slot,
			"epoch", record.Epoch,
			"residual", record.Residual.String(),
		)
	}

	share, err := pool.Deposit(amount)
	if err != nil {
		return share, err
	}
	k.SetBidPool(ctx, pool)
	return share, nil
}

// WithdrawFromPool burns share and removes amount of stable from the pool
func (k *Keeper) WithdrawFromPool(ctx sdk.Context, pool *types.BidPool, share math.LegacyDec, amount math.Int) error {
	if err := pool.Withdraw(share, amount); err != nil {
		return err
	}
	k.SetBidPool(ctx, pool)
	return nil
}

// ConsumePool records an execution fill against the pool
func (k *Keeper) ConsumePool(ctx sdk.Context, pool *types.BidPool, stableSpent, collateralBought math.Int) error {
	if err := pool.Consume(stableSpent, collateralBought); err != nil {
		return err
	}
	k.SetBidPool(ctx, pool)
	return nil
}

// ============ Epoch records ============

// SetEpochRecord saves the final indices of a retired pool epoch
func (k *Keeper) SetEpochRecord(ctx sdk.Context, record types.EpochRecord) {
	setJSON(k.GetStore(ctx), types.EpochRecordKey(record.CollateralToken, record.Slot, record.Epoch), record)
}

// GetEpochRecord returns a retired epoch, nil when the epoch is live
func (k *Keeper) GetEpochRecord(ctx sdk.Context, collateral string, slot uint32, epoch uint64) *types.EpochRecord {
	record, _ := getJSON[types.EpochRecord](k.GetStore(ctx), types.EpochRecordKey(collateral, slot, epoch))
	return record
}

// GetAllEpochRecords returns every retired epoch
func (k *Keeper) GetAllEpochRecords(ctx sdk.Context) []types.EpochRecord {
	records := []types.EpochRecord{}
	iterateJSON(k.GetStore(ctx), types.EpochRecordKeyPrefix, nil, func(_ []byte, record *types.EpochRecord) bool {
		records = append(records, *record)
		return false
	})
	return records
}
