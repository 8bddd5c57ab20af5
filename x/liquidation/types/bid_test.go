package types

import (
	"testing"

	"cosmossdk.io/math"
)

// TestBidLifecycle tests accrual, claim and close of a bid
func TestBidLifecycle(t *testing.T) {
	pool := NewBidPool("uatom", 0, math.LegacyZeroDec())
	bid := NewBid(1, "owner", "uatom", 0, math.NewInt(100), 10)

	if bid.IsActive() {
		t.Fatal("new bid must be waiting")
	}
	if bid.CanActivate(9) {
		t.Error("bid must not activate before wait end")
	}
	if !bid.CanActivate(10) {
		t.Error("bid must activate at wait end")
	}

	share, err := pool.Deposit(bid.Amount)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	bid.Activate(share, pool)
	if !bid.IsActive() || !bid.Amount.IsZero() {
		t.Fatalf("expected active bid with no raw stable, got %+v", bid)
	}

	if err := pool.Consume(math.NewInt(30), math.NewInt(3)); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := bid.Checkpoint(pool, nil); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if !bid.PendingLiquidatedCollateral.Equal(math.LegacyNewDec(3)) {
		t.Errorf("expected 3 pending, got %s", bid.PendingLiquidatedCollateral)
	}
	if !bid.Spent.Equal(math.LegacyNewDec(30)) {
		t.Errorf("expected 30 spent, got %s", bid.Spent)
	}

	// A second checkpoint accrues nothing
	if err := bid.Checkpoint(pool, nil); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if !bid.PendingLiquidatedCollateral.Equal(math.LegacyNewDec(3)) {
		t.Errorf("checkpoint must be idempotent, got %s", bid.PendingLiquidatedCollateral)
	}

	if got := bid.TakeClaimable(); !got.Equal(math.NewInt(3)) {
		t.Errorf("expected claim 3, got %s", got)
	}
	if bid.IsClosed() {
		t.Error("bid with share must not be closed")
	}
}

// TestBidCheckpointRetiredEpoch tests settlement against a retired epoch
func TestBidCheckpointRetiredEpoch(t *testing.T) {
	pool := NewBidPool("uatom", 0, math.LegacyZeroDec())
	bid := NewBid(1, "owner", "uatom", 0, math.NewInt(100), 0)
	share, _ := pool.Deposit(bid.Amount)
	bid.Activate(share, pool)

	_ = pool.Consume(math.NewInt(100), math.NewInt(9))
	record := pool.RetireEpoch()
	_, _ = pool.Deposit(math.NewInt(50))
	_ = pool.Consume(math.NewInt(50), math.NewInt(5))

	if err := bid.Checkpoint(pool, nil); !ErrBidInvariant.Is(err) {
		t.Fatalf("expected invariant error without epoch record, got %v", err)
	}
	if err := bid.Checkpoint(pool, &record); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if !bid.PendingLiquidatedCollateral.Equal(math.LegacyNewDec(9)) {
		t.Errorf("expected only the retired epoch's 9 collateral, got %s", bid.PendingLiquidatedCollateral)
	}
	if !bid.Share.IsZero() {
		t.Errorf("expected worthless share written off, got %s", bid.Share)
	}
	if bid.Epoch != pool.Epoch {
		t.Errorf("expected bid epoch %d, got %d", pool.Epoch, bid.Epoch)
	}

	_ = bid.TakeClaimable()
	if !bid.IsClosed() {
		t.Error("expected closed bid after claim")
	}
}

// TestBidCheckpointRetiredResidual tests that bids of a retired epoch split
// the stable left behind pro rata
func TestBidCheckpointRetiredResidual(t *testing.T) {
	pool := NewBidPool("uatom", 0, math.LegacyZeroDec())
	first := NewBid(1, "owner", "uatom", 0, math.NewInt(600_000_000), 0)
	second := NewBid(2, "owner", "uatom", 0, math.NewInt(400_000_000), 0)
	for _, bid := range []*Bid{first, second} {
		share, err := pool.Deposit(bid.Amount)
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		bid.Activate(share, pool)
	}

	_ = pool.Consume(math.NewInt(999_999_990), math.NewInt(99_999_999))
	record := pool.RetireEpoch()
	_, _ = pool.Deposit(math.NewInt(50))

	for _, tt := range []struct {
		bid  *Bid
		want int64
	}{
		{first, 6},
		{second, 4},
	} {
		if err := tt.bid.Checkpoint(pool, &record); err != nil {
			t.Fatalf("checkpoint bid %d: %v", tt.bid.Idx, err)
		}
		if !tt.bid.Amount.Equal(math.NewInt(tt.want)) {
			t.Errorf("bid %d: expected refund %d, got %s", tt.bid.Idx, tt.want, tt.bid.Amount)
		}
		if !tt.bid.Share.IsZero() {
			t.Errorf("bid %d: expected share written off, got %s", tt.bid.Idx, tt.bid.Share)
		}
		if tt.bid.IsClosed() {
			t.Errorf("bid %d: must stay open until the refund is retracted", tt.bid.Idx)
		}
	}
}

// TestTakeClaimableKeepsResidue tests the fractional residue stays on the bid
func TestTakeClaimableKeepsResidue(t *testing.T) {
	bid := NewBid(1, "owner", "uatom", 0, math.ZeroInt(), 0)
	bid.PendingLiquidatedCollateral = dec("7.25")

	if got := bid.TakeClaimable(); !got.Equal(math.NewInt(7)) {
		t.Errorf("expected 7, got %s", got)
	}
	if !bid.PendingLiquidatedCollateral.Equal(dec("0.25")) {
		t.Errorf("expected residue 0.25, got %s", bid.PendingLiquidatedCollateral)
	}
	if got := bid.TakeClaimable(); !got.IsZero() {
		t.Errorf("expected nothing claimable, got %s", got)
	}
}
