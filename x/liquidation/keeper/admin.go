package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

func (k *Keeper) assertOwner(ctx sdk.Context, sender string) (types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return cfg, err
	}
	if sender != cfg.Owner {
		return cfg, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the owner", sender)
	}
	return cfg, nil
}

// WhitelistCollateral registers a new collateral token
func (k *Keeper) WhitelistCollateral(goCtx context.Context, sender string, info types.CollateralInfo) error {
	return k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		if _, err := k.assertOwner(ctx, sender); err != nil {
			return err
		}
		if err := info.Validate(); err != nil {
			return err
		}
		if _, err := k.GetCollateralInfo(ctx, info.CollateralToken); err == nil {
			return errorsmod.Wrap(types.ErrCollateralAlreadyWhitelisted, info.CollateralToken)
		}
		k.SetCollateralInfo(ctx, info)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWhitelistCollateral,
				sdk.NewAttribute(types.AttributeKeyCollateral, info.CollateralToken),
				sdk.NewAttribute("max_slot", strconv.FormatUint(uint64(info.MaxSlot), 10)),
				sdk.NewAttribute("premium_rate_per_slot", info.PremiumRatePerSlot.String()),
				sdk.NewAttribute("bid_threshold", info.BidThreshold.String()),
			),
		)
		k.logger.Info("Collateral whitelisted",
			"collateral", info.CollateralToken,
			"max_slot", info.MaxSlot,
			"premium_rate_per_slot", info.PremiumRatePerSlot.String(),
		)
		return nil
	})
}

// UpdateCollateralInfo changes the bid threshold and slot count of a
// collateral. Pools above a reduced max slot stay until drained; only new
// bids are bounded by it.
func (k *Keeper) UpdateCollateralInfo(goCtx context.Context, sender, collateral string, bidThreshold *math.Int, maxSlot uint32) error {
	return k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		if _, err := k.assertOwner(ctx, sender); err != nil {
			return err
		}
		info, err := k.GetCollateralInfo(ctx, collateral)
		if err != nil {
			return err
		}
		if bidThreshold != nil {
			info.BidThreshold = *bidThreshold
		}
		if maxSlot != 0 {
			info.MaxSlot = maxSlot
		}
		if err := info.Validate(); err != nil {
			return err
		}
		k.SetCollateralInfo(ctx, info)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpdateCollateralInfo,
				sdk.NewAttribute(types.AttributeKeyCollateral, collateral),
				sdk.NewAttribute("max_slot", strconv.FormatUint(uint64(info.MaxSlot), 10)),
				sdk.NewAttribute("bid_threshold", info.BidThreshold.String()),
			),
		)
		k.logger.Info("Collateral info updated", "collateral", collateral, "max_slot", info.MaxSlot)
		return nil
	})
}

// UpdateConfig replaces the module config. The stable denom is fixed at
// genesis.
func (k *Keeper) UpdateConfig(goCtx context.Context, sender string, cfg types.Config) error {
	return k.atomically(sdk.UnwrapSDKContext(goCtx), func(ctx sdk.Context) error {
		current, err := k.assertOwner(ctx, sender)
		if err != nil {
			return err
		}
		if cfg.StableDenom != current.StableDenom {
			return errorsmod.Wrapf(types.ErrInvalidConfig, "stable denom is fixed to %s", current.StableDenom)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		k.SetConfig(ctx, cfg)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpdateConfig,
				sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
				sdk.NewAttribute("oracle_addr", cfg.OracleAddr),
				sdk.NewAttribute("safe_ratio", cfg.SafeRatio.String()),
				sdk.NewAttribute(types.AttributeKeyBidFee, cfg.BidFee.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidatorFee, cfg.LiquidatorFee.String()),
			),
		)
		k.logger.Info("Config updated", "owner", cfg.Owner)
		return nil
	})
}
