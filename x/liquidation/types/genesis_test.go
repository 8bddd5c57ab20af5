package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestGenesisValidate tests genesis consistency checks
func TestGenesisValidate(t *testing.T) {
	atom := NewCollateralInfo("uatom", testCustody, math.NewInt(1000), 10, dec("0.01"))
	pool := *NewBidPool("uatom", 2, dec("0.02"))
	bid := *NewBid(1, testBidder, "uatom", 2, math.NewInt(10), 100)

	tests := []struct {
		name   string
		mutate func(*GenesisState)
		want   error
	}{
		{"default", func(*GenesisState) {}, nil},
		{"populated", func(gs *GenesisState) {
			gs.Collaterals = []CollateralInfo{atom}
			gs.BidPools = []BidPool{pool}
			gs.Bids = []Bid{bid}
			gs.NextBidIdx = 2
		}, nil},
		{"duplicate collateral", func(gs *GenesisState) {
			gs.Collaterals = []CollateralInfo{atom, atom}
		}, ErrInvalidGenesis},
		{"pool of unknown collateral", func(gs *GenesisState) {
			gs.BidPools = []BidPool{pool}
		}, ErrInvalidGenesis},
		{"bid idx not below next idx", func(gs *GenesisState) {
			gs.Collaterals = []CollateralInfo{atom}
			gs.Bids = []Bid{bid}
		}, ErrInvalidGenesis},
		{"collateral without custody", func(gs *GenesisState) {
			c := atom
			c.Custody = ""
			gs.Collaterals = []CollateralInfo{c}
		}, ErrInvalidAddress},
		{"pool slot out of range", func(gs *GenesisState) {
			p := pool
			p.Slot = 10
			gs.Collaterals = []CollateralInfo{atom}
			gs.BidPools = []BidPool{p}
		}, ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := DefaultGenesis()
			tt.mutate(gs)
			err := gs.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
