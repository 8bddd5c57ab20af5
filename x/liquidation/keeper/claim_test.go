package keeper

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// TestClaimLiquidationsProRata tests collateral split by share
func TestClaimLiquidationsProRata(t *testing.T) {
	f := setupKeeper(t)
	f.submit(t, aliceAddr, 0, 300_000_000)
	f.submit(t, bobAddr, 0, 100_000_000)

	f.execute(t, 20_000_000)

	aliceClaim, err := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, atom, nil)
	if err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	bobClaim, err := f.keeper.ClaimLiquidations(f.ctx, bobAddr, atom, nil)
	if err != nil {
		t.Fatalf("bob claim: %v", err)
	}
	if !aliceClaim.Equal(sdkmath.NewInt(15_000_000)) || !bobClaim.Equal(sdkmath.NewInt(5_000_000)) {
		t.Errorf("expected 15000000/5000000, got %s/%s", aliceClaim, bobClaim)
	}
	if got := f.balanceOf(aliceAddr, atom); !got.Equal(aliceClaim) {
		t.Errorf("expected alice to receive %s, got %s", aliceClaim, got)
	}

	// nothing new accrued
	again, err := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, atom, nil)
	if err != nil || !again.IsZero() {
		t.Errorf("expected idempotent zero claim, got %s %v", again, err)
	}
}

// TestClaimLiquidationsLateBidder tests that a bid activated after an
// execution earns nothing from it
func TestClaimLiquidationsLateBidder(t *testing.T) {
	f := setupKeeper(t)
	f.submit(t, aliceAddr, 0, 100_000_000)
	f.execute(t, 5_000_000)
	f.submit(t, bobAddr, 0, 100_000_000)

	claimed, err := f.keeper.ClaimLiquidations(f.ctx, bobAddr, atom, nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.IsZero() {
		t.Errorf("late bidder must not earn past executions, got %s", claimed)
	}

	f.execute(t, 1_000_000)
	aliceClaim, _ := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, atom, nil)
	bobClaim, _ := f.keeper.ClaimLiquidations(f.ctx, bobAddr, atom, nil)
	if total := aliceClaim.Add(bobClaim); total.GT(sdkmath.NewInt(6_000_000)) {
		t.Errorf("claims %s exceed distributed collateral", total)
	}
	if !aliceClaim.GT(bobClaim) {
		t.Errorf("alice also earned the first execution and must claim more: %s vs %s", aliceClaim, bobClaim)
	}
}

// TestClaimLiquidationsExplicitIdx tests ownership checks on explicit idxs
func TestClaimLiquidationsExplicitIdx(t *testing.T) {
	f := setupKeeper(t)
	bid := f.submit(t, aliceAddr, 0, 100_000_000)

	if _, err := f.keeper.ClaimLiquidations(f.ctx, bobAddr, atom, []uint64{bid.Idx}); !errors.Is(err, types.ErrNotBidOwner) {
		t.Errorf("expected not owner, got %v", err)
	}
	if _, err := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, "uosmo", []uint64{bid.Idx}); !errors.Is(err, types.ErrCollateralNotWhitelisted) {
		t.Errorf("expected unknown collateral, got %v", err)
	}
}

// TestRetractWaitingBidRoundTrip tests submit then retract before activation
func TestRetractWaitingBidRoundTrip(t *testing.T) {
	f := setupKeeper(t)
	f.setBidThreshold(t, atom, 0)

	bid := f.submit(t, aliceAddr, 3, 12_345_678)
	if bid.IsActive() {
		t.Fatal("expected waiting bid")
	}

	withdrawn, err := f.keeper.RetractBid(f.ctx, aliceAddr, bid.Idx, nil)
	if err != nil {
		t.Fatalf("retract: %v", err)
	}
	if !withdrawn.Equal(sdkmath.NewInt(12_345_678)) {
		t.Errorf("expected exact round trip, got %s", withdrawn)
	}
	if got := f.balanceOf(aliceAddr, stable); !got.Equal(sdkmath.NewInt(12_345_678)) {
		t.Errorf("expected funds returned, got %s", got)
	}
	if _, err := f.keeper.GetBid(f.ctx, bid.Idx); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected closed bid removed, got %v", err)
	}
}

// TestRetractWaitingBidPartial tests partial withdrawal of raw stable
func TestRetractWaitingBidPartial(t *testing.T) {
	f := setupKeeper(t)
	f.setBidThreshold(t, atom, 0)
	bid := f.submit(t, aliceAddr, 0, 1000)

	over := sdkmath.NewInt(1001)
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, bid.Idx, &over); !errors.Is(err, types.ErrRetractExceedsBid) {
		t.Errorf("expected exceeds bid, got %v", err)
	}
	part := sdkmath.NewInt(400)
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, bid.Idx, &part); err != nil {
		t.Fatalf("partial retract: %v", err)
	}
	stored, err := f.keeper.GetBid(f.ctx, bid.Idx)
	if err != nil {
		t.Fatalf("get bid: %v", err)
	}
	if !stored.Amount.Equal(sdkmath.NewInt(600)) {
		t.Errorf("expected 600 left, got %s", stored.Amount)
	}
}

// TestRetractActiveBid tests share burning at the pool exchange rate
func TestRetractActiveBid(t *testing.T) {
	f := setupKeeper(t)
	alice := f.submit(t, aliceAddr, 0, 100_000_000)
	f.submit(t, bobAddr, 0, 100_000_000)

	// spend half the pool: each bid is now worth 50 stable
	f.execute(t, 10_000_000)

	over := sdkmath.NewInt(50_000_001)
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, &over); !errors.Is(err, types.ErrRetractExceedsBid) {
		t.Errorf("expected exceeds value, got %v", err)
	}

	part := sdkmath.NewInt(20_000_000)
	withdrawn, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, &part)
	if err != nil {
		t.Fatalf("retract: %v", err)
	}
	if !withdrawn.Equal(part) {
		t.Errorf("expected 20000000, got %s", withdrawn)
	}

	bid, _ := f.keeper.GetBid(f.ctx, alice.Idx)
	if !bid.Share.Equal(sdkmath.LegacyNewDec(60_000_000)) {
		t.Errorf("expected 40000000 share burnt, got %s left", bid.Share)
	}
	if !bid.PendingLiquidatedCollateral.Equal(sdkmath.LegacyNewDec(5_000_000)) {
		t.Errorf("retract must checkpoint first, pending %s", bid.PendingLiquidatedCollateral)
	}

	pool := f.pool(t, 0)
	if !pool.TotalShare.Equal(sdkmath.LegacyNewDec(160_000_000)) || !pool.TotalBidAmount.Equal(sdkmath.NewInt(80_000_000)) {
		t.Errorf("unexpected pool %+v", pool)
	}

	// full retract keeps the bid until its collateral is claimed
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, nil); err != nil {
		t.Fatalf("retract all: %v", err)
	}
	bid, err = f.keeper.GetBid(f.ctx, alice.Idx)
	if err != nil {
		t.Fatalf("bid with pending collateral must remain: %v", err)
	}
	if !bid.Share.IsZero() {
		t.Errorf("expected no share left, got %s", bid.Share)
	}
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, nil); !errors.Is(err, types.ErrNothingToRetract) {
		t.Errorf("expected nothing to retract, got %v", err)
	}

	if _, err := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, atom, nil); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := f.keeper.GetBid(f.ctx, alice.Idx); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected bid removed after final claim, got %v", err)
	}
}

// TestRetractOwnership tests retract authorization
func TestRetractOwnership(t *testing.T) {
	f := setupKeeper(t)
	bid := f.submit(t, aliceAddr, 0, 1000)

	if _, err := f.keeper.RetractBid(f.ctx, bobAddr, bid.Idx, nil); !errors.Is(err, types.ErrNotBidOwner) {
		t.Errorf("expected not owner, got %v", err)
	}
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, 42, nil); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

// TestDrainedPoolEpochRollover tests that a fully consumed pool does not
// dilute new bidders with worthless share
func TestDrainedPoolEpochRollover(t *testing.T) {
	f := setupKeeper(t)
	alice := f.submit(t, aliceAddr, 0, 100_000_000)

	// 10 atom at 10 drains the pool exactly
	f.execute(t, 10_000_000)
	if !f.pool(t, 0).IsDrained() {
		t.Fatal("expected drained pool")
	}

	bob := f.submit(t, bobAddr, 0, 50_000_000)
	pool := f.pool(t, 0)
	if pool.Epoch != 1 {
		t.Errorf("expected epoch 1, got %d", pool.Epoch)
	}
	if !bob.Share.Equal(sdkmath.LegacyNewDec(50_000_000)) || !pool.TotalShare.Equal(bob.Share) {
		t.Errorf("expected 1:1 mint in the new epoch, got bob %s pool %s", bob.Share, pool.TotalShare)
	}

	f.execute(t, 1_000_000)

	aliceClaim, err := f.keeper.ClaimLiquidations(f.ctx, aliceAddr, atom, nil)
	if err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	if !aliceClaim.Equal(sdkmath.NewInt(10_000_000)) {
		t.Errorf("alice must only receive her epoch's collateral, got %s", aliceClaim)
	}
	if _, err := f.keeper.GetBid(f.ctx, alice.Idx); !errors.Is(err, types.ErrBidNotFound) {
		t.Errorf("expected settled bid removed, got %v", err)
	}

	bobClaim, err := f.keeper.ClaimLiquidations(f.ctx, bobAddr, atom, nil)
	if err != nil {
		t.Fatalf("bob claim: %v", err)
	}
	if !bobClaim.Equal(sdkmath.NewInt(1_000_000)) {
		t.Errorf("expected bob to receive 1000000, got %s", bobClaim)
	}
}

// TestRetractDrainedBid tests retracting a bid whose pool was drained
func TestRetractDrainedBid(t *testing.T) {
	f := setupKeeper(t)
	alice := f.submit(t, aliceAddr, 0, 100_000_000)
	f.execute(t, 10_000_000)

	one := sdkmath.NewInt(1)
	if _, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, &one); !errors.Is(err, types.ErrRetractExceedsBid) {
		t.Errorf("expected exceeds value on drained bid, got %v", err)
	}
	withdrawn, err := f.keeper.RetractBid(f.ctx, aliceAddr, alice.Idx, nil)
	if err != nil {
		t.Fatalf("retract all: %v", err)
	}
	if !withdrawn.IsZero() {
		t.Errorf("expected no stable, got %s", withdrawn)
	}
	pool := f.pool(t, 0)
	if !pool.TotalShare.IsZero() || !pool.TotalBidAmount.IsZero() {
		t.Errorf("expected empty pool after burning worthless share, got %+v", pool)
	}
}
