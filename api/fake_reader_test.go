package api

import (
	"fmt"
	"sort"
	"sync"

	"cosmossdk.io/math"

	"github.com/openalpha/lendq/x/liquidation/types"
)

// fakeReader serves liquidation state from memory
type fakeReader struct {
	mu          sync.Mutex
	config      *types.Config
	collaterals map[string]types.CollateralInfo
	pools       map[string][]types.BidPool
	bids        map[uint64]types.Bid
	records     []types.LiquidationRecord
	failRecords bool
}

func newFakeReader() *fakeReader {
	cfg := types.DefaultConfig()
	return &fakeReader{
		config:      &cfg,
		collaterals: make(map[string]types.CollateralInfo),
		pools:       make(map[string][]types.BidPool),
		bids:        make(map[uint64]types.Bid),
	}
}

func (f *fakeReader) addPool(collateral string, slot uint32, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pool := types.NewBidPool(collateral, slot, math.LegacyNewDecWithPrec(int64(slot), 2))
	if amount > 0 {
		if _, err := pool.Deposit(math.NewInt(amount)); err != nil {
			panic(err)
		}
	}
	pools := append(f.pools[collateral], *pool)
	sort.Slice(pools, func(i, j int) bool { return pools[i].Slot < pools[j].Slot })
	f.pools[collateral] = pools
}

func (f *fakeReader) addRecord(collateral string, amount int64) types.LiquidationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	record := types.LiquidationRecord{
		Seq:              uint64(len(f.records) + 1),
		CollateralToken:  collateral,
		CollateralAmount: math.NewInt(amount),
		Price:            math.LegacyNewDec(10),
		StableRecovered:  math.NewInt(amount * 9),
		RepayAmount:      math.NewInt(amount * 9),
		BidFee:           math.ZeroInt(),
		LiquidatorFee:    math.ZeroInt(),
	}
	f.records = append(f.records, record)
	return record
}

func (f *fakeReader) Config() (*types.Config, error) {
	return f.config, nil
}

func (f *fakeReader) CollateralInfo(collateral string) (*types.CollateralInfo, error) {
	info, ok := f.collaterals[collateral]
	if !ok {
		return nil, types.ErrCollateralNotWhitelisted.Wrap(collateral)
	}
	return &info, nil
}

func (f *fakeReader) CollateralInfos() ([]types.CollateralInfo, error) {
	out := make([]types.CollateralInfo, 0, len(f.collaterals))
	for _, info := range f.collaterals {
		out = append(out, info)
	}
	return out, nil
}

func (f *fakeReader) BidPools(collateral string) ([]types.BidPool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.BidPool(nil), f.pools[collateral]...), nil
}

func (f *fakeReader) BidsByUser(collateral, bidder string) ([]types.Bid, error) {
	out := make([]types.Bid, 0)
	for _, bid := range f.bids {
		if bid.CollateralToken == collateral && bid.Owner == bidder {
			out = append(out, bid)
		}
	}
	return out, nil
}

func (f *fakeReader) Bid(idx uint64) (*types.Bid, error) {
	bid, ok := f.bids[idx]
	if !ok {
		return nil, types.ErrBidNotFound.Wrapf("idx %d", idx)
	}
	return &bid, nil
}

func (f *fakeReader) LiquidationRecord(seq uint64) (*types.LiquidationRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRecords {
		return nil, false, fmt.Errorf("node unreachable")
	}
	if seq == 0 || seq > uint64(len(f.records)) {
		return nil, false, nil
	}
	record := f.records[seq-1]
	return &record, true, nil
}

func (f *fakeReader) LiquidationRecords() ([]types.LiquidationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.LiquidationRecord(nil), f.records...), nil
}
