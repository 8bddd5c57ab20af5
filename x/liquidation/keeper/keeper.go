package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// Keeper manages the liquidation queue state
type Keeper struct {
	cdc          codec.BinaryCodec
	storeKey     storetypes.StoreKey
	bankKeeper   types.BankKeeper
	oracleKeeper types.OracleKeeper
	logger       log.Logger
}

// NewKeeper creates a new liquidation keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	oracleKeeper types.OracleKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:          cdc,
		storeKey:     storeKey,
		bankKeeper:   bankKeeper,
		oracleKeeper: oracleKeeper,
		logger:       logger.With("module", "x/"+types.ModuleName),
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

// atomically runs fn on a cached context. Writes and events reach ctx only
// when fn returns nil.
func (k *Keeper) atomically(ctx sdk.Context, fn func(ctx sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func setJSON(store storetypes.KVStore, key []byte, v any) {
	bz, _ := json.Marshal(v)
	store.Set(key, bz)
}

func getJSON[T any](store storetypes.KVStore, key []byte) (*T, bool) {
	bz := store.Get(key)
	if bz == nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(bz, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// iterateJSON decodes every record under pfx, starting strictly after the
// suffix startAfter when it is non-nil, until fn returns true
func iterateJSON[T any](store storetypes.KVStore, pfx, startAfter []byte, fn func(key []byte, v *T) (stop bool)) {
	iterator := prefixIterator(store, pfx, startAfter)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var v T
		if err := json.Unmarshal(iterator.Value(), &v); err != nil {
			continue
		}
		if fn(iterator.Key(), &v) {
			return
		}
	}
}

// ============ Config ============

// SetConfig saves the module config
func (k *Keeper) SetConfig(ctx sdk.Context, cfg types.Config) {
	setJSON(k.GetStore(ctx), types.ConfigKey, cfg)
}

// GetConfig returns the module config
func (k *Keeper) GetConfig(ctx sdk.Context) (types.Config, error) {
	cfg, ok := getJSON[types.Config](k.GetStore(ctx), types.ConfigKey)
	if !ok {
		return types.Config{}, errorsmod.Wrap(types.ErrInvalidConfig, "config not initialized")
	}
	return *cfg, nil
}

// ============ Collateral registry ============

// SetCollateralInfo saves a collateral registry entry
func (k *Keeper) SetCollateralInfo(ctx sdk.Context, info types.CollateralInfo) {
	setJSON(k.GetStore(ctx), types.CollateralInfoKey(info.CollateralToken), info)
}

// GetCollateralInfo returns the registry entry of a whitelisted collateral
func (k *Keeper) GetCollateralInfo(ctx sdk.Context, collateral string) (types.CollateralInfo, error) {
	info, ok := getJSON[types.CollateralInfo](k.GetStore(ctx), types.CollateralInfoKey(collateral))
	if !ok {
		return types.CollateralInfo{}, errorsmod.Wrap(types.ErrCollateralNotWhitelisted, collateral)
	}
	return *info, nil
}

// GetCollateralInfos returns registry entries starting after startAfter, up
// to limit entries (0 means all). Keys are length-prefixed, so entries come
// back ordered by denom length first and lexically within one length: "uosmo"
// pages before "ibc/...". Callers must page with the last denom they saw.
func (k *Keeper) GetCollateralInfos(ctx sdk.Context, startAfter string, limit int) []types.CollateralInfo {
	var after []byte
	if startAfter != "" {
		after = append([]byte{byte(len(startAfter))}, startAfter...)
	}
	infos := []types.CollateralInfo{}
	iterateJSON(k.GetStore(ctx), types.CollateralInfoKeyPrefix, after, func(_ []byte, info *types.CollateralInfo) bool {
		infos = append(infos, *info)
		return limit > 0 && len(infos) >= limit
	})
	return infos
}

// ============ Sequences ============

func (k *Keeper) nextSequence(ctx sdk.Context, key []byte) uint64 {
	store := k.GetStore(ctx)
	seq := uint64(1)
	if bz := store.Get(key); bz != nil {
		seq = types.BytesToUint64(bz)
	}
	store.Set(key, types.Uint64ToBytes(seq+1))
	return seq
}

func (k *Keeper) peekSequence(ctx sdk.Context, key []byte) uint64 {
	bz := k.GetStore(ctx).Get(key)
	if bz == nil {
		return 1
	}
	return types.BytesToUint64(bz)
}

// GetNextBidIdx returns the idx the next bid will receive
func (k *Keeper) GetNextBidIdx(ctx sdk.Context) uint64 {
	return k.peekSequence(ctx, types.BidIdxSequenceKey)
}

// SetNextBidIdx sets the bid idx sequence
func (k *Keeper) SetNextBidIdx(ctx sdk.Context, idx uint64) {
	k.GetStore(ctx).Set(types.BidIdxSequenceKey, types.Uint64ToBytes(idx))
}

func prefixIterator(store storetypes.KVStore, pfx, startAfter []byte) storetypes.Iterator {
	var start []byte
	if startAfter != nil {
		start = append(append([]byte{}, startAfter...), 0x00)
	}
	return prefix.NewStore(store, pfx).Iterator(start, nil)
}
