package keeper

import (
	"context"
	"encoding/json"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/oracle/types"
)

// Keeper stores feeder prices
type Keeper struct {
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new oracle keeper
func NewKeeper(storeKey storetypes.StoreKey, logger log.Logger) *Keeper {
	return &Keeper{
		storeKey: storeKey,
		logger:   logger.With("module", "x/"+types.ModuleName),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// SetParams saves the oracle params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(types.ParamsKey, bz)
}

// GetParams returns the oracle params, the defaults when unset
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetPrice saves a feeder's price
func (k *Keeper) SetPrice(ctx sdk.Context, price types.PriceInfo) {
	bz, _ := json.Marshal(price)
	k.GetStore(ctx).Set(types.PriceKey(price.Feeder, price.Denom), bz)
}

// GetPrice returns the latest price of denom posted by feeder. The base
// denom always prices at one.
func (k *Keeper) GetPrice(ctx sdk.Context, feeder, denom string) (types.PriceInfo, error) {
	if denom == k.GetParams(ctx).BaseDenom {
		return types.BasePrice(feeder, denom), nil
	}
	bz := k.GetStore(ctx).Get(types.PriceKey(feeder, denom))
	if bz == nil {
		return types.PriceInfo{}, errorsmod.Wrapf(types.ErrPriceNotFound, "%s by %s", denom, feeder)
	}
	var price types.PriceInfo
	if err := json.Unmarshal(bz, &price); err != nil {
		return types.PriceInfo{}, errorsmod.Wrapf(types.ErrPriceNotFound, "%s by %s: %s", denom, feeder, err)
	}
	return price, nil
}

// GetAllPrices returns every posted price ordered by feeder then denom
func (k *Keeper) GetAllPrices(ctx sdk.Context) []types.PriceInfo {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PriceKeyPrefix)
	defer iterator.Close()

	prices := []types.PriceInfo{}
	for ; iterator.Valid(); iterator.Next() {
		var price types.PriceInfo
		if err := json.Unmarshal(iterator.Value(), &price); err != nil {
			continue
		}
		prices = append(prices, price)
	}
	return prices
}

// FeedPrices records prices posted by a registered feeder at the block time
func (k *Keeper) FeedPrices(goCtx context.Context, feeder string, prices map[string]math.LegacyDec) error {
	ctx := sdk.UnwrapSDKContext(goCtx)
	params := k.GetParams(ctx)
	if !params.IsFeeder(feeder) {
		return errorsmod.Wrap(types.ErrUnauthorizedFeeder, feeder)
	}

	now := ctx.BlockTime().Unix()
	denoms := make([]string, 0, len(prices))
	for denom, price := range prices {
		denoms = append(denoms, denom)
		if denom == params.BaseDenom {
			return errorsmod.Wrapf(types.ErrInvalidDenom, "%s is the base denom", denom)
		}
		if !price.IsPositive() {
			return errorsmod.Wrapf(types.ErrInvalidPrice, "%s: %s", denom, price)
		}
	}
	sort.Strings(denoms)
	for _, denom := range denoms {
		price := prices[denom]
		k.SetPrice(ctx, types.PriceInfo{Feeder: feeder, Denom: denom, Price: price, LastUpdated: now})

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeedPrice,
				sdk.NewAttribute(types.AttributeKeyFeeder, feeder),
				sdk.NewAttribute(types.AttributeKeyDenom, denom),
				sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			),
		)
	}

	k.logger.Debug("Prices fed", "feeder", feeder, "count", len(prices), "time", now)
	return nil
}

// QueryPrice returns the rate of base in quote as posted by feeder
func (k *Keeper) QueryPrice(ctx sdk.Context, feeder, base, quote string) (types.PriceResponse, error) {
	basePrice, err := k.GetPrice(ctx, feeder, base)
	if err != nil {
		return types.PriceResponse{}, err
	}
	quotePrice, err := k.GetPrice(ctx, feeder, quote)
	if err != nil {
		return types.PriceResponse{}, err
	}
	return types.PriceResponse{
		Rate:             basePrice.Price.Quo(quotePrice.Price),
		LastUpdatedBase:  basePrice.LastUpdated,
		LastUpdatedQuote: quotePrice.LastUpdated,
	}, nil
}

// InitGenesis loads the oracle state
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	k.SetParams(ctx, gs.Params)
	for _, price := range gs.Prices {
		k.SetPrice(ctx, price)
	}
}

// ExportGenesis exports the oracle state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		Params: k.GetParams(ctx),
		Prices: k.GetAllPrices(ctx),
	}
}
