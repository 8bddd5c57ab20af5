package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// recordNamespace seeds the deterministic liquidation record IDs
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("lendq/"+types.ModuleName))

// ExecuteBid sells collateral into the queue at the oracle price, walking
// premium slots from the lowest. The stable recovered, net of fees, is paid
// to the repay address. The call fails without side effects when the queue
// cannot absorb the whole collateral amount.
func (k *Keeper) ExecuteBid(goCtx context.Context, sender, liquidator, repayAddr, feeAddr string, collateral sdk.Coin) (*types.LiquidationRecord, error) {
	var record *types.LiquidationRecord
	err := k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		var err error
		record, err = k.executeBid(ctx, sender, liquidator, repayAddr, feeAddr, collateral)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (k *Keeper) executeBid(ctx sdk.Context, sender, liquidator, repayAddr, feeAddr string, collateral sdk.Coin) (*types.LiquidationRecord, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	info, err := k.GetCollateralInfo(ctx, collateral.Denom)
	if err != nil {
		return nil, err
	}
	if sender != info.Custody {
		return nil, errorsmod.Wrapf(types.ErrNotCustody, "%s is executed by %s", collateral.Denom, info.Custody)
	}
	if !collateral.Amount.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrInvalidAmount, "collateral %s", collateral)
	}

	if repayAddr == "" {
		repayAddr = sender
	}
	if feeAddr == "" {
		feeAddr = sender
	}
	addrs := map[string]sdk.AccAddress{}
	for _, a := range []struct{ field, addr string }{
		{"sender", sender}, {"liquidator", liquidator}, {"repay address", repayAddr}, {"fee address", feeAddr},
	} {
		acc, err := sdk.AccAddressFromBech32(a.addr)
		if err != nil {
			return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "%s: %s", a.field, err)
		}
		addrs[a.field] = acc
	}

	price, err := k.freshPrice(ctx, cfg, collateral.Denom)
	if err != nil {
		return nil, err
	}

	remaining := collateral.Amount
	totalStable := math.ZeroInt()
	fills := []types.Fill{}

	for _, pool := range k.GetBidPoolsByCollateral(ctx, collateral.Denom, nil, 0) {
		if !remaining.IsPositive() {
			break
		}
		if pool.IsEmpty() {
			continue
		}

		// rounded up so no fill hands out collateral for nothing
		discounted := pool.DiscountedPrice(price)
		repay := math.LegacyNewDecFromInt(remaining).Mul(discounted).Ceil().TruncateInt()

		var stable, bought math.Int
		if repay.LTE(pool.TotalBidAmount) {
			stable, bought = repay, remaining
		} else {
			stable = pool.TotalBidAmount
			bought = math.LegacyNewDecFromInt(stable).Quo(discounted).TruncateInt()
			if bought.IsZero() {
				continue
			}
		}

		if err := k.ConsumePool(ctx, pool, stable, bought); err != nil {
			return nil, err
		}
		remaining = remaining.Sub(bought)
		totalStable = totalStable.Add(stable)
		fills = append(fills, types.Fill{Slot: pool.Slot, CollateralBought: bought, StableSpent: stable})
	}

	if remaining.IsPositive() {
		value := math.LegacyNewDecFromInt(remaining).Mul(price).TruncateInt()
		return nil, errorsmod.Wrapf(types.ErrInsufficientBids,
			"%s%s unabsorbed, worth %s%s", remaining, collateral.Denom, value, cfg.StableDenom)
	}

	bidFee := math.LegacyNewDecFromInt(totalStable).Mul(cfg.BidFee).TruncateInt()
	liquidatorFee := math.LegacyNewDecFromInt(totalStable).Mul(cfg.LiquidatorFee).TruncateInt()
	repayAmount := totalStable.Sub(bidFee).Sub(liquidatorFee)

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addrs["sender"], types.ModuleName, sdk.NewCoins(collateral)); err != nil {
		return nil, err
	}
	for _, payout := range []struct {
		to     sdk.AccAddress
		amount math.Int
	}{
		{addrs["repay address"], repayAmount},
		{addrs["fee address"], bidFee},
		{addrs["liquidator"], liquidatorFee},
	} {
		if !payout.amount.IsPositive() {
			continue
		}
		coins := sdk.NewCoins(sdk.NewCoin(cfg.StableDenom, payout.amount))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, payout.to, coins); err != nil {
			return nil, err
		}
	}

	seq := k.nextSequence(ctx, types.LiquidationSequenceKey)
	record := &types.LiquidationRecord{
		Seq:              seq,
		ID:               uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("%s/%d/%d", collateral.Denom, ctx.BlockHeight(), seq))).String(),
		CollateralToken:  collateral.Denom,
		CollateralAmount: collateral.Amount,
		Price:            price,
		StableRecovered:  totalStable,
		RepayAmount:      repayAmount,
		BidFee:           bidFee,
		LiquidatorFee:    liquidatorFee,
		Liquidator:       liquidator,
		RepayAddress:     repayAddr,
		FeeAddress:       feeAddr,
		Height:           ctx.BlockHeight(),
		Time:             ctx.BlockTime().Unix(),
		Fills:            fills,
	}
	k.SetLiquidationRecord(ctx, record)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeExecuteBid,
			sdk.NewAttribute(types.AttributeKeyRecordID, record.ID),
			sdk.NewAttribute(types.AttributeKeyCollateral, collateral.Denom),
			sdk.NewAttribute(types.AttributeKeyCollateralAmt, collateral.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyStableRecovered, totalStable.String()),
			sdk.NewAttribute(types.AttributeKeyRepayAmount, repayAmount.String()),
			sdk.NewAttribute(types.AttributeKeyBidFee, bidFee.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidatorFee, liquidatorFee.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidator, liquidator),
		),
	)

	k.logger.Info("Liquidation executed",
		"record", record.ID,
		"collateral", collateral.String(),
		"price", price.String(),
		"stable_recovered", totalStable.String(),
		"slots", len(fills),
	)

	return record, nil
}

// freshPrice returns the collateral price in stable, rejecting quotes older
// than the configured timeframe on either side of the pair
func (k *Keeper) freshPrice(ctx sdk.Context, cfg types.Config, collateral string) (math.LegacyDec, error) {
	resp, err := k.oracleKeeper.QueryPrice(ctx, cfg.OracleAddr, collateral, cfg.StableDenom)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if resp.Rate.IsNil() || !resp.Rate.IsPositive() {
		return math.LegacyDec{}, errorsmod.Wrapf(types.ErrInvalidPrice, "%s/%s rate %s", collateral, cfg.StableDenom, resp.Rate)
	}

	now := ctx.BlockTime().Unix()
	timeframe := int64(cfg.PriceTimeframe)
	if now-resp.LastUpdatedBase > timeframe || now-resp.LastUpdatedQuote > timeframe {
		return math.LegacyDec{}, errorsmod.Wrapf(types.ErrPriceTooOld,
			"%s updated at %d, %s updated at %d, now %d", collateral, resp.LastUpdatedBase, cfg.StableDenom, resp.LastUpdatedQuote, now)
	}
	return resp.Rate, nil
}

// ============ Liquidation records ============

// SetLiquidationRecord saves an execution record
func (k *Keeper) SetLiquidationRecord(ctx sdk.Context, record *types.LiquidationRecord) {
	setJSON(k.GetStore(ctx), types.LiquidationRecordKey(record.Seq), record)
}

// GetLiquidationRecords returns execution records in sequence order,
// starting after startAfter (0 means from the first), up to limit records
// (0 means all)
func (k *Keeper) GetLiquidationRecords(ctx sdk.Context, startAfter uint64, limit int) []types.LiquidationRecord {
	var after []byte
	if startAfter > 0 {
		after = types.Uint64ToBytes(startAfter)
	}
	records := []types.LiquidationRecord{}
	iterateJSON(k.GetStore(ctx), types.LiquidationRecordKeyPrefix, after, func(_ []byte, record *types.LiquidationRecord) bool {
		records = append(records, *record)
		return limit > 0 && len(records) >= limit
	})
	return records
}

// GetLastLiquidationSeq returns the sequence of the latest record, 0 if none
func (k *Keeper) GetLastLiquidationSeq(ctx sdk.Context) uint64 {
	return k.peekSequence(ctx, types.LiquidationSequenceKey) - 1
}
