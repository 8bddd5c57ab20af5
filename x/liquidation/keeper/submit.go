package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// SubmitBid escrows stable into a premium slot of a collateral queue. The bid
// is active at once while the collateral's active bids are under its bid
// threshold; otherwise it waits for the waiting period.
func (k *Keeper) SubmitBid(goCtx context.Context, bidder, collateral string, slot uint32, amount sdk.Coin) (*types.Bid, error) {
	var bid *types.Bid
	err := k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		var err error
		bid, err = k.submitBid(ctx, bidder, collateral, slot, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

func (k *Keeper) submitBid(ctx sdk.Context, bidder, collateral string, slot uint32, amount sdk.Coin) (*types.Bid, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if amount.Denom != cfg.StableDenom {
		return nil, errorsmod.Wrapf(types.ErrInvalidDenom, "bids must be in %s, got %s", cfg.StableDenom, amount.Denom)
	}
	if !amount.Amount.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrInvalidAmount, "bid %s", amount)
	}

	info, err := k.GetCollateralInfo(ctx, collateral)
	if err != nil {
		return nil, err
	}
	if err := info.ValidateSlot(slot); err != nil {
		return nil, err
	}

	bidderAddr, err := sdk.AccAddressFromBech32(bidder)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "bidder: %s", err)
	}

	if cfg.SingleBidPerSlot {
		for _, existing := range k.GetBidsByUser(ctx, collateral, bidder, 0, 0) {
			if existing.PremiumSlot == slot {
				return nil, errorsmod.Wrapf(types.ErrDuplicateBid, "bid %d in slot %d", existing.Idx, slot)
			}
		}
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, bidderAddr, types.ModuleName, sdk.NewCoins(amount)); err != nil {
		return nil, err
	}

	now := ctx.BlockTime().Unix()
	activateNow := k.TotalActiveBids(ctx, collateral).LT(info.BidThreshold)
	bid := k.CreateBid(ctx, bidder, collateral, slot, amount.Amount, now+int64(cfg.WaitingPeriod))

	share := math.LegacyZeroDec()
	if activateNow {
		share, err = k.ActivateBid(ctx, bid, info)
		if err != nil {
			return nil, err
		}
	}

	waitEnd := ""
	if bid.WaitEnd != nil {
		waitEnd = strconv.FormatInt(*bid.WaitEnd, 10)
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSubmitBid,
			sdk.NewAttribute(types.AttributeKeyBidIdx, strconv.FormatUint(bid.Idx, 10)),
			sdk.NewAttribute(types.AttributeKeyBidder, bidder),
			sdk.NewAttribute(types.AttributeKeyCollateral, collateral),
			sdk.NewAttribute(types.AttributeKeySlot, strconv.FormatUint(uint64(slot), 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyShare, share.String()),
			sdk.NewAttribute(types.AttributeKeyWaitEnd, waitEnd),
		),
	)

	k.logger.Info("Bid submitted",
		"idx", bid.Idx,
		"bidder", bidder,
		"collateral", collateral,
		"slot", slot,
		"amount", amount.String(),
		"active", bid.IsActive(),
	)

	return bid, nil
}

// ActivateBids activates waiting bids of a bidder. Explicit idxs must all be
// eligible; without idxs every eligible bid for the collateral is activated
// and the rest are skipped. Bids whose wait has not elapsed still activate
// while the collateral's active bids are under the bid threshold.
func (k *Keeper) ActivateBids(goCtx context.Context, bidder, collateral string, idxs []uint64) ([]uint64, math.Int, error) {
	var (
		activated []uint64
		total     math.Int
	)
	err := k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		var err error
		activated, total, err = k.activateBids(ctx, bidder, collateral, idxs)
		return err
	})
	if err != nil {
		return nil, math.ZeroInt(), err
	}
	return activated, total, nil
}

func (k *Keeper) activateBids(ctx sdk.Context, bidder, collateral string, idxs []uint64) ([]uint64, math.Int, error) {
	info, err := k.GetCollateralInfo(ctx, collateral)
	if err != nil {
		return nil, math.ZeroInt(), err
	}
	bids, err := k.loadOwnedBids(ctx, bidder, collateral, idxs)
	if err != nil {
		return nil, math.ZeroInt(), err
	}

	explicit := len(idxs) > 0
	now := ctx.BlockTime().Unix()
	activated := []uint64{}
	total := math.ZeroInt()

	for _, bid := range bids {
		if bid.IsActive() {
			continue
		}
		if !bid.CanActivate(now) && !k.TotalActiveBids(ctx, collateral).LT(info.BidThreshold) {
			if explicit {
				return nil, math.ZeroInt(), errorsmod.Wrapf(types.ErrWaitPeriodNotExpired,
					"bid %d waits until %d, now %d", bid.Idx, *bid.WaitEnd, now)
			}
			k.logger.Debug("Bid still waiting", "idx", bid.Idx, "wait_end", *bid.WaitEnd)
			continue
		}

		amount := bid.Amount
		share, err := k.ActivateBid(ctx, bid, info)
		if err != nil {
			return nil, math.ZeroInt(), err
		}
		activated = append(activated, bid.Idx)
		total = total.Add(amount)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeActivateBid,
				sdk.NewAttribute(types.AttributeKeyBidIdx, strconv.FormatUint(bid.Idx, 10)),
				sdk.NewAttribute(types.AttributeKeyBidder, bidder),
				sdk.NewAttribute(types.AttributeKeyCollateral, collateral),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
				sdk.NewAttribute(types.AttributeKeyShare, share.String()),
			),
		)
	}

	if len(activated) > 0 {
		k.logger.Info("Bids activated",
			"bidder", bidder,
			"collateral", collateral,
			"count", len(activated),
			"amount", total.String(),
		)
	}
	return activated, total, nil
}
