package api

import (
	"sync"

	"github.com/huandu/skiplist"

	"github.com/openalpha/lendq/x/liquidation/types"
)

// RecentFeed keeps a bounded window of the latest liquidation records ordered
// by sequence number
type RecentFeed struct {
	list   *skiplist.SkipList
	window int
	mu     sync.RWMutex
}

// NewRecentFeed creates a feed keeping at most window records
func NewRecentFeed(window int) *RecentFeed {
	if window <= 0 {
		window = 100
	}
	return &RecentFeed{
		list:   skiplist.New(skiplist.Uint64),
		window: window,
	}
}

// Add inserts a record, evicting the oldest beyond the window. It reports
// whether the record was new.
func (f *RecentFeed) Add(record types.LiquidationRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.list.Get(record.Seq) != nil {
		return false
	}
	if f.list.Len() >= f.window {
		front := f.list.Front()
		if front.Key().(uint64) > record.Seq {
			return false
		}
		f.list.Remove(front.Key())
	}
	f.list.Set(record.Seq, record)
	return true
}

// LastSeq returns the highest sequence held, 0 when empty
func (f *RecentFeed) LastSeq() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	back := f.list.Back()
	if back == nil {
		return 0
	}
	return back.Key().(uint64)
}

// Len returns the number of records held
func (f *RecentFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.list.Len()
}

// Since returns up to limit records with a sequence above after, oldest
// first. Collateral filters by token when set.
func (f *RecentFeed) Since(after uint64, collateral string, limit int) []types.LiquidationRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]types.LiquidationRecord, 0)
	for elem := f.list.Find(after + 1); elem != nil; elem = elem.Next() {
		record := elem.Value.(types.LiquidationRecord)
		if collateral != "" && record.CollateralToken != collateral {
			continue
		}
		out = append(out, record)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Latest returns the newest limit records, newest first
func (f *RecentFeed) Latest(collateral string, limit int) []types.LiquidationRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]types.LiquidationRecord, 0)
	for elem := f.list.Back(); elem != nil; elem = elem.Prev() {
		record := elem.Value.(types.LiquidationRecord)
		if collateral != "" && record.CollateralToken != collateral {
			continue
		}
		out = append(out, record)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
