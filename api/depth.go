package api

import (
	"cosmossdk.io/math"
	"github.com/google/btree"

	"github.com/openalpha/lendq/x/liquidation/types"
)

const btreeDegree = 8 // at most 30 slots per collateral

// slotItem wraps a bid pool for use in the btree, ordered by slot
type slotItem struct {
	slot uint32
	pool types.BidPool
}

// Less implements btree.Item
func (a *slotItem) Less(b btree.Item) bool {
	return a.slot < b.(*slotItem).slot
}

// DepthLevel is one premium slot of the depth book. Amounts accumulate from
// the lowest premium upward, which is the order executions consume pools.
type DepthLevel struct {
	Slot             uint32 `json:"slot"`
	PremiumRate      string `json:"premium_rate"`
	BidAmount        string `json:"bid_amount"`
	CumulativeAmount string `json:"cumulative_amount"`

	// set when the book is priced
	Price              string `json:"price,omitempty"`
	CollateralCapacity string `json:"collateral_capacity,omitempty"`
}

// DepthBook is the stable available to buy a collateral, per premium slot
type DepthBook struct {
	Collateral string
	tree       *btree.BTree
}

// NewDepthBook builds a book from the pools of a collateral
func NewDepthBook(collateral string, pools []types.BidPool) *DepthBook {
	b := &DepthBook{
		Collateral: collateral,
		tree:       btree.New(btreeDegree),
	}
	for _, pool := range pools {
		b.Set(pool)
	}
	return b
}

// Set adds or replaces a pool. Pools nothing can draw from are dropped.
func (b *DepthBook) Set(pool types.BidPool) {
	if pool.IsEmpty() {
		b.tree.Delete(&slotItem{slot: pool.Slot})
		return
	}
	b.tree.ReplaceOrInsert(&slotItem{slot: pool.Slot, pool: pool})
}

// Len returns the number of funded slots
func (b *DepthBook) Len() int {
	return b.tree.Len()
}

// Total returns the stable available across all slots
func (b *DepthBook) Total() math.Int {
	total := math.ZeroInt()
	b.tree.Ascend(func(item btree.Item) bool {
		total = total.Add(item.(*slotItem).pool.TotalBidAmount)
		return true
	})
	return total
}

// Levels walks the slots in ascending order. When price is positive each
// level also carries its discounted price and the cumulative collateral the
// book can absorb down to that level.
func (b *DepthBook) Levels(price math.LegacyDec) []DepthLevel {
	priced := !price.IsNil() && price.IsPositive()
	levels := make([]DepthLevel, 0, b.tree.Len())
	cumulative := math.ZeroInt()
	capacity := math.LegacyZeroDec()

	b.tree.Ascend(func(item btree.Item) bool {
		pool := item.(*slotItem).pool
		cumulative = cumulative.Add(pool.TotalBidAmount)
		level := DepthLevel{
			Slot:             pool.Slot,
			PremiumRate:      pool.PremiumRate.String(),
			BidAmount:        pool.TotalBidAmount.String(),
			CumulativeAmount: cumulative.String(),
		}
		if priced {
			discounted := pool.DiscountedPrice(price)
			if discounted.IsPositive() {
				capacity = capacity.Add(math.LegacyNewDecFromInt(pool.TotalBidAmount).Quo(discounted))
			}
			level.Price = discounted.String()
			level.CollateralCapacity = capacity.TruncateInt().String()
		}
		levels = append(levels, level)
		return true
	})
	return levels
}

// Range walks the pools between two slots inclusive
func (b *DepthBook) Range(from, to uint32, fn func(pool types.BidPool) bool) {
	b.tree.AscendRange(&slotItem{slot: from}, &slotItem{slot: to + 1}, func(item btree.Item) bool {
		return fn(item.(*slotItem).pool)
	})
}
