package keeper

import (
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// TestSubmitBidImmediateActivation tests activation under the bid threshold
func TestSubmitBidImmediateActivation(t *testing.T) {
	f := setupKeeper(t)

	bid := f.submit(t, aliceAddr, 0, 100_000_000)
	if bid.Idx != 1 {
		t.Errorf("expected idx 1, got %d", bid.Idx)
	}
	if !bid.IsActive() {
		t.Fatal("expected bid active under threshold")
	}
	if !bid.Amount.IsZero() || !bid.Share.Equal(sdkmath.LegacyNewDec(100_000_000)) {
		t.Errorf("expected share 100000000 and no raw stable, got share %s amount %s", bid.Share, bid.Amount)
	}
	if got := f.moduleBalance(stable); !got.Equal(sdkmath.NewInt(100_000_000)) {
		t.Errorf("expected escrow 100000000, got %s", got)
	}
	if got := f.pool(t, 0).TotalBidAmount; !got.Equal(sdkmath.NewInt(100_000_000)) {
		t.Errorf("expected pool total 100000000, got %s", got)
	}
}

// TestSubmitBidWaitingPeriod tests bids above the threshold wait
func TestSubmitBidWaitingPeriod(t *testing.T) {
	f := setupKeeper(t)
	f.setBidThreshold(t, atom, 50_000_000)

	first := f.submit(t, aliceAddr, 1, 60_000_000)
	if !first.IsActive() {
		t.Fatal("first bid should activate while the queue is empty")
	}

	second := f.submit(t, bobAddr, 1, 10_000_000)
	if second.IsActive() {
		t.Fatal("second bid should wait above threshold")
	}
	wantEnd := testTime.Unix() + 600
	if second.WaitEnd == nil || *second.WaitEnd != wantEnd {
		t.Errorf("expected wait end %d, got %v", wantEnd, second.WaitEnd)
	}
	if !second.Share.IsZero() || !second.Amount.Equal(sdkmath.NewInt(10_000_000)) {
		t.Errorf("waiting bid must hold raw stable only, got %+v", second)
	}
	if got := f.pool(t, 1).TotalBidAmount; !got.Equal(sdkmath.NewInt(60_000_000)) {
		t.Errorf("waiting stable must stay out of the pool, got %s", got)
	}
}

// TestSubmitBidValidation tests submit rejections
func TestSubmitBidValidation(t *testing.T) {
	tests := []struct {
		name       string
		collateral string
		slot       uint32
		coin       sdk.Coin
		want       error
	}{
		{"wrong denom", atom, 0, sdk.NewInt64Coin("uluna", 10), types.ErrInvalidDenom},
		{"slot out of range", atom, 30, sdk.NewInt64Coin(stable, 10), types.ErrInvalidSlot},
		{"unknown collateral", "uosmo", 0, sdk.NewInt64Coin(stable, 10), types.ErrCollateralNotWhitelisted},
		{"zero amount", atom, 0, sdk.NewInt64Coin(stable, 0), types.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupKeeper(t)
			f.fund(t, aliceAddr, sdk.NewInt64Coin(stable, 1000), sdk.NewInt64Coin("uluna", 1000))
			_, err := f.keeper.SubmitBid(f.ctx, aliceAddr, tt.collateral, tt.slot, tt.coin)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !f.moduleBalance(stable).IsZero() {
				t.Errorf("rejected bid must not escrow funds")
			}
		})
	}
}

// TestSubmitBidSingleBidPerSlot tests the stricter one bid per slot option
func TestSubmitBidSingleBidPerSlot(t *testing.T) {
	f := setupKeeper(t)

	f.submit(t, aliceAddr, 2, 1000)
	f.submit(t, aliceAddr, 2, 1000)

	f.setConfig(t, func(c *types.Config) { c.SingleBidPerSlot = true })
	f.fund(t, aliceAddr, sdk.NewInt64Coin(stable, 1000))
	if _, err := f.keeper.SubmitBid(f.ctx, aliceAddr, atom, 2, sdk.NewInt64Coin(stable, 1000)); !errors.Is(err, types.ErrDuplicateBid) {
		t.Errorf("expected duplicate bid error, got %v", err)
	}
	if _, err := f.keeper.SubmitBid(f.ctx, aliceAddr, atom, 3, sdk.NewInt64Coin(stable, 1000)); err != nil {
		t.Errorf("other slot must be accepted: %v", err)
	}
}

// TestSubmitBidInsufficientFunds tests that a failed escrow leaves no bid
func TestSubmitBidInsufficientFunds(t *testing.T) {
	f := setupKeeper(t)

	if _, err := f.keeper.SubmitBid(f.ctx, aliceAddr, atom, 0, sdk.NewInt64Coin(stable, 10)); err == nil {
		t.Fatal("expected escrow failure")
	}
	if _, err := f.keeper.GetBid(f.ctx, 1); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected no bid stored, got %v", err)
	}
	if f.keeper.GetNextBidIdx(f.ctx) != 1 {
		t.Errorf("idx sequence must roll back, got %d", f.keeper.GetNextBidIdx(f.ctx))
	}
}

// TestActivateBids tests waiting period enforcement and idempotence
func TestActivateBids(t *testing.T) {
	f := setupKeeper(t)
	f.setBidThreshold(t, atom, 1)

	f.submit(t, aliceAddr, 0, 1000)
	waiting := f.submit(t, aliceAddr, 0, 500)

	// explicit idx before the wait ends is a timing error
	if _, _, err := f.keeper.ActivateBids(f.ctx, aliceAddr, atom, []uint64{waiting.Idx}); !errors.Is(err, types.ErrWaitPeriodNotExpired) {
		t.Fatalf("expected wait period error, got %v", err)
	}

	// without idxs ineligible bids are skipped
	activated, total, err := f.keeper.ActivateBids(f.ctx, aliceAddr, atom, nil)
	if err != nil {
		t.Fatalf("activate all: %v", err)
	}
	if len(activated) != 0 || !total.IsZero() {
		t.Errorf("expected nothing activated, got %v %s", activated, total)
	}

	f.advance(600 * time.Second)
	activated, total, err = f.keeper.ActivateBids(f.ctx, aliceAddr, atom, []uint64{waiting.Idx})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(activated) != 1 || activated[0] != waiting.Idx || !total.Equal(sdkmath.NewInt(500)) {
		t.Errorf("expected bid %d activated with 500, got %v %s", waiting.Idx, activated, total)
	}

	bid, err := f.keeper.GetBid(f.ctx, waiting.Idx)
	if err != nil {
		t.Fatalf("get bid: %v", err)
	}
	if !bid.IsActive() || !bid.Amount.IsZero() || !bid.Share.IsPositive() {
		t.Errorf("expected active bid with share, got %+v", bid)
	}

	// second activation is a no-op
	activated, _, err = f.keeper.ActivateBids(f.ctx, aliceAddr, atom, []uint64{waiting.Idx})
	if err != nil || len(activated) != 0 {
		t.Errorf("expected no-op, got %v %v", activated, err)
	}
	if got := f.pool(t, 0).TotalBidAmount; !got.Equal(sdkmath.NewInt(1500)) {
		t.Errorf("expected pool total 1500, got %s", got)
	}
}

// TestActivateBidsThresholdExemption tests activation before wait end when
// the queue is thin again
func TestActivateBidsThresholdExemption(t *testing.T) {
	f := setupKeeper(t)
	f.setBidThreshold(t, atom, 1000)

	first := f.submit(t, aliceAddr, 0, 1000)
	waiting := f.submit(t, aliceAddr, 0, 300)
	if waiting.IsActive() {
		t.Fatal("expected waiting bid")
	}

	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, first.Idx, nil); err != nil {
		t.Fatalf("retract: %v", err)
	}

	activated, _, err := f.keeper.ActivateBids(f.ctx, aliceAddr, atom, []uint64{waiting.Idx})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(activated) != 1 {
		t.Errorf("expected exemption to activate bid, got %v", activated)
	}
}

// TestActivateBidsOwnership tests explicit idx checks
func TestActivateBidsOwnership(t *testing.T) {
	f := setupKeeper(t)
	bid := f.submit(t, aliceAddr, 0, 1000)

	if _, _, err := f.keeper.ActivateBids(f.ctx, bobAddr, atom, []uint64{bid.Idx}); !errors.Is(err, types.ErrNotBidOwner) {
		t.Errorf("expected not owner, got %v", err)
	}
	if _, _, err := f.keeper.ActivateBids(f.ctx, aliceAddr, atom, []uint64{99}); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
