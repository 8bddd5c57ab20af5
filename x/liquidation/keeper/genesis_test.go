package keeper

import (
	"encoding/json"
	"testing"
)

// TestGenesisRoundTrip tests that exported state imports into an equal state
func TestGenesisRoundTrip(t *testing.T) {
	f := setupKeeper(t)
	f.submit(t, aliceAddr, 0, 100_000_000)
	f.submit(t, bobAddr, 2, 50_000_000)
	f.execute(t, 10_000_000)
	f.submit(t, bobAddr, 0, 30_000_000)
	f.setBidThreshold(t, atom, 0)
	f.submit(t, aliceAddr, 4, 1000)

	exported := f.keeper.ExportGenesis(f.ctx)
	if err := exported.Validate(); err != nil {
		t.Fatalf("exported genesis is invalid: %v", err)
	}
	if len(exported.EpochRecords) != 1 || exported.NextBidIdx != 5 || len(exported.LiquidationRecords) != 1 {
		t.Errorf("unexpected export %+v", exported)
	}

	g := setupKeeper(t)
	g.keeper.InitGenesis(g.ctx, *exported)
	reexported := g.keeper.ExportGenesis(g.ctx)

	want, _ := json.Marshal(exported)
	got, _ := json.Marshal(reexported)
	if string(want) != string(got) {
		t.Errorf("genesis mismatch\nwant %s\ngot  %s", want, got)
	}

	// sequences continue where the export left off
	bid := g.submit(t, aliceAddr, 1, 1000)
	if bid.Idx != 5 {
		t.Errorf("expected next idx 5, got %d", bid.Idx)
	}
	if seq := g.keeper.GetLastLiquidationSeq(g.ctx); seq != 1 {
		t.Errorf("expected last seq 1, got %d", seq)
	}
}
