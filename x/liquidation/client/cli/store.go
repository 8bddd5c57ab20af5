package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/openalpha/lendq/x/liquidation/types"
)

// StoreQuerier fetches raw values from the liquidation store
type StoreQuerier interface {
	Get(key []byte) ([]byte, error)
	Scan(prefix []byte) ([]kv.Pair, error)
}

type nodeQuerier struct {
	clientCtx client.Context
}

func (q nodeQuerier) Get(key []byte) ([]byte, error) {
	bz, _, err := q.clientCtx.QueryStore(key, types.StoreKey)
	return bz, err
}

func (q nodeQuerier) Scan(prefix []byte) ([]kv.Pair, error) {
	pairs, _, err := q.clientCtx.QuerySubspace(prefix, types.StoreKey)
	return pairs, err
}

// StoreReader reads module records straight from the liquidation store
type StoreReader struct {
	q StoreQuerier
}

// NewStoreReader creates a reader over the node of clientCtx
func NewStoreReader(clientCtx client.Context) StoreReader {
	return StoreReader{q: nodeQuerier{clientCtx: clientCtx}}
}

// NewStoreReaderWith creates a reader over any store querier
func NewStoreReaderWith(q StoreQuerier) StoreReader {
	return StoreReader{q: q}
}

func (r StoreReader) get(key []byte, v any) (bool, error) {
	bz, err := r.q.Get(key)
	if err != nil {
		return false, err
	}
	if len(bz) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(bz, v)
}

func scan[T any](r StoreReader, pfx []byte) ([]T, error) {
	pairs, err := r.q.Scan(pfx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(pairs))
	for _, pair := range pairs {
		var v T
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %x: %w", pair.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Config returns the module config
func (r StoreReader) Config() (*types.Config, error) {
	var cfg types.Config
	found, err := r.get(types.ConfigKey, &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("liquidation config not initialized")
	}
	return &cfg, nil
}

// CollateralInfo returns the registry entry of a collateral
func (r StoreReader) CollateralInfo(collateral string) (*types.CollateralInfo, error) {
	var info types.CollateralInfo
	found, err := r.get(types.CollateralInfoKey(collateral), &info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrCollateralNotWhitelisted.Wrap(collateral)
	}
	return &info, nil
}

// CollateralInfos returns every whitelisted collateral
func (r StoreReader) CollateralInfos() ([]types.CollateralInfo, error) {
	return scan[types.CollateralInfo](r, types.CollateralInfoKeyPrefix)
}

// BidPool returns the pool of a slot
func (r StoreReader) BidPool(collateral string, slot uint32) (*types.BidPool, error) {
	var pool types.BidPool
	found, err := r.get(types.BidPoolKey(collateral, slot), &pool)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrBidPoolNotFound.Wrapf("%s slot %d", collateral, slot)
	}
	return &pool, nil
}

// BidPools returns the pools of a collateral in slot order
func (r StoreReader) BidPools(collateral string) ([]types.BidPool, error) {
	return scan[types.BidPool](r, types.BidPoolPrefix(collateral))
}

// Bid returns a bid with its pending collateral projected to the current
// pool state
func (r StoreReader) Bid(idx uint64) (*types.Bid, error) {
	var bid types.Bid
	found, err := r.get(types.BidKey(idx), &bid)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrBidNotFound.Wrapf("idx %d", idx)
	}
	if err := r.project(&bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r StoreReader) project(bid *types.Bid) error {
	if !bid.IsActive() {
		return nil
	}
	pool, err := r.BidPool(bid.CollateralToken, bid.PremiumSlot)
	if err != nil {
		return err
	}
	var retired *types.EpochRecord
	if bid.Epoch < pool.Epoch {
		var record types.EpochRecord
		found, err := r.get(types.EpochRecordKey(bid.CollateralToken, bid.PremiumSlot, bid.Epoch), &record)
		if err != nil {
			return err
		}
		if found {
			retired = &record
		}
	}
	return bid.Checkpoint(pool, retired)
}

// BidsByUser returns a bidder's bids for a collateral in idx order
func (r StoreReader) BidsByUser(collateral, bidder string) ([]types.Bid, error) {
	pfx := types.BidsByUserPrefix(collateral, bidder)
	pairs, err := r.q.Scan(pfx)
	if err != nil {
		return nil, err
	}
	bids := make([]types.Bid, 0, len(pairs))
	for _, pair := range pairs {
		bid, err := r.Bid(types.BytesToUint64(pair.Key[len(pfx):]))
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, nil
}

// LiquidationRecords returns the execution history in sequence order
func (r StoreReader) LiquidationRecords() ([]types.LiquidationRecord, error) {
	return scan[types.LiquidationRecord](r, types.LiquidationRecordKeyPrefix)
}

// LiquidationRecord returns the execution record of a sequence number
func (r StoreReader) LiquidationRecord(seq uint64) (*types.LiquidationRecord, bool, error) {
	var record types.LiquidationRecord
	found, err := r.get(types.LiquidationRecordKey(seq), &record)
	if err != nil || !found {
		return nil, false, err
	}
	return &record, true, nil
}
