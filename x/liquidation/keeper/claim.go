package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// ClaimLiquidations pays out the whole units of collateral bought by the
// bidder's bids. Fractional residue stays on each bid. Claiming with
// nothing pending succeeds and transfers nothing.
func (k *Keeper) ClaimLiquidations(goCtx context.Context, bidder, collateral string, idxs []uint64) (math.Int, error) {
	var claimed math.Int
	err := k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		var err error
		claimed, err = k.claimLiquidations(ctx, bidder, collateral, idxs)
		return err
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return claimed, nil
}

func (k *Keeper) claimLiquidations(ctx sdk.Context, bidder, collateral string, idxs []uint64) (math.Int, error) {
	if _, err := k.GetCollateralInfo(ctx, collateral); err != nil {
		return math.ZeroInt(), err
	}
	bidderAddr, err := sdk.AccAddressFromBech32(bidder)
	if err != nil {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInvalidAddress, "bidder: %s", err)
	}
	bids, err := k.loadOwnedBids(ctx, bidder, collateral, idxs)
	if err != nil {
		return math.ZeroInt(), err
	}

	total := math.ZeroInt()
	for _, bid := range bids {
		if !bid.IsActive() {
			continue
		}
		err := k.withAccrualCheckpoint(ctx, bid, func(_ *types.BidPool) error {
			total = total.Add(bid.TakeClaimable())
			return nil
		})
		if err != nil {
			return math.ZeroInt(), err
		}
	}

	if total.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(collateral, total))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, bidderAddr, coins); err != nil {
			return math.ZeroInt(), err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimLiquidations,
			sdk.NewAttribute(types.AttributeKeyBidder, bidder),
			sdk.NewAttribute(types.AttributeKeyCollateral, collateral),
			sdk.NewAttribute(types.AttributeKeyAmount, total.String()),
		),
	)

	k.logger.Info("Liquidations claimed",
		"bidder", bidder,
		"collateral", collateral,
		"bids", len(bids),
		"amount", total.String(),
	)

	return total, nil
}

// RetractBid returns stable from a bid. A waiting bid returns its raw stable;
// an active bid burns share at the pool's exchange rate, rounded up. A nil
// amount retracts everything.
func (k *Keeper) RetractBid(goCtx context.Context, bidder string, idx uint64, amount *math.Int) (math.Int, error) {
	var withdrawn math.Int
	err := k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		var err error
		withdrawn, err = k.retractBid(ctx, bidder, idx, amount)
		return err
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return withdrawn, nil
}

func (k *Keeper) retractBid(ctx sdk.Context, bidder string, idx uint64, amount *math.Int) (math.Int, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	bidderAddr, err := sdk.AccAddressFromBech32(bidder)
	if err != nil {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInvalidAddress, "bidder: %s", err)
	}
	bid, err := k.GetBid(ctx, idx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if bid.Owner != bidder {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrNotBidOwner, "bid %d", idx)
	}
	if amount != nil && !amount.IsPositive() {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInvalidAmount, "retract %s", amount)
	}

	var withdraw math.Int
	if bid.IsActive() {
		withdraw, err = k.retractActiveBid(ctx, bid, amount)
	} else {
		withdraw, err = k.retractWaitingBid(ctx, bid, amount)
	}
	if err != nil {
		return math.ZeroInt(), err
	}

	if withdraw.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(cfg.StableDenom, withdraw))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, bidderAddr, coins); err != nil {
			return math.ZeroInt(), err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRetractBid,
			sdk.NewAttribute(types.AttributeKeyBidIdx, strconv.FormatUint(idx, 10)),
			sdk.NewAttribute(types.AttributeKeyBidder, bidder),
			sdk.NewAttribute(types.AttributeKeyAmount, withdraw.String()),
		),
	)

	k.logger.Info("Bid retracted",
		"idx", idx,
		"bidder", bidder,
		"amount", withdraw.String(),
	)

	return withdraw, nil
}

func (k *Keeper) retractWaitingBid(ctx sdk.Context, bid *types.Bid, amount *math.Int) (math.Int, error) {
	if bid.Amount.IsZero() {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrNothingToRetract, "bid %d", bid.Idx)
	}
	withdraw := bid.Amount
	if amount != nil {
		if amount.GT(bid.Amount) {
			return math.ZeroInt(), errorsmod.Wrapf(types.ErrRetractExceedsBid,
				"retract %s from bid %d holding %s", amount, bid.Idx, bid.Amount)
		}
		withdraw = *amount
	}
	bid.Amount = bid.Amount.Sub(withdraw)
	k.saveOrRemoveBid(ctx, bid)
	return withdraw, nil
}

func (k *Keeper) retractActiveBid(ctx sdk.Context, bid *types.Bid, amount *math.Int) (math.Int, error) {
	withdraw := math.ZeroInt()
	err := k.withAccrualCheckpoint(ctx, bid, func(pool *types.BidPool) error {
		if bid.Share.IsZero() {
			return retractRefund(bid, amount, &withdraw)
		}

		value := pool.ValueOfShares(bid.Share)
		share := bid.Share
		withdraw = value
		if amount != nil {
			if amount.GT(value) {
				return errorsmod.Wrapf(types.ErrRetractExceedsBid,
					"retract %s from bid %d worth %s", amount, bid.Idx, value)
			}
			withdraw = *amount
			share = math.LegacyMinDec(pool.SharesForWithdrawal(withdraw), bid.Share)
		}
		return k.ReduceBidShare(ctx, bid, pool, share, withdraw)
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return withdraw, nil
}

// retractRefund pays out stable refunded to a bid from a retired epoch
func retractRefund(bid *types.Bid, amount *math.Int, withdraw *math.Int) error {
	if bid.Amount.IsZero() {
		return errorsmod.Wrapf(types.ErrNothingToRetract, "bid %d", bid.Idx)
	}
	*withdraw = bid.Amount
	if amount != nil {
		if amount.GT(bid.Amount) {
			return errorsmod.Wrapf(types.ErrRetractExceedsBid,
				"retract %s from bid %d holding %s", amount, bid.Idx, bid.Amount)
		}
		*withdraw = *amount
	}
	bid.Amount = bid.Amount.Sub(*withdraw)
	return nil
}
