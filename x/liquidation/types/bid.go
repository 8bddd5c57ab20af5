package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Bid is a bidder's position in a pool. A waiting bid holds raw stable in
// Amount; an active bid holds pool share, or in Amount the stable refunded
// when its epoch was retired.
type Bid struct {
	Idx             uint64         `json:"idx"`
	Owner           string         `json:"owner"`
	CollateralToken string         `json:"collateral_token"`
	PremiumSlot     uint32         `json:"premium_slot"`
	Share           math.LegacyDec `json:"share"`
	Amount          math.Int       `json:"amount"`
	// WaitEnd is nil once the bid is active
	WaitEnd *int64 `json:"wait_end,omitempty"`
	Epoch   uint64 `json:"epoch"`

	LiquidationIndexSnapshot math.LegacyDec `json:"liquidation_index_snapshot"`
	ExpenseIndexSnapshot     math.LegacyDec `json:"expense_index_snapshot"`

	PendingLiquidatedCollateral math.LegacyDec `json:"pending_liquidated_collateral"`
	Spent                       math.LegacyDec `json:"spent"`
}

// NewBid creates a waiting bid holding amount of stable
func NewBid(idx uint64, owner, collateral string, slot uint32, amount math.Int, waitEnd int64) *Bid {
	return &Bid{
		Idx:                         idx,
		Owner:                       owner,
		CollateralToken:             collateral,
		PremiumSlot:                 slot,
		Share:                       math.LegacyZeroDec(),
		Amount:                      amount,
		WaitEnd:                     &waitEnd,
		LiquidationIndexSnapshot:    math.LegacyZeroDec(),
		ExpenseIndexSnapshot:        math.LegacyZeroDec(),
		PendingLiquidatedCollateral: math.LegacyZeroDec(),
		Spent:                       math.LegacyZeroDec(),
	}
}

// IsActive reports a bid that holds pool share
func (b *Bid) IsActive() bool {
	return b.WaitEnd == nil
}

// CanActivate reports a waiting bid whose wait has elapsed at now
func (b *Bid) CanActivate(now int64) bool {
	return b.WaitEnd != nil && *b.WaitEnd <= now
}

// Activate converts the bid's stable into share minted by the pool
func (b *Bid) Activate(share math.LegacyDec, pool *BidPool) {
	b.Share = share
	b.Amount = math.ZeroInt()
	b.WaitEnd = nil
	b.Epoch = pool.Epoch
	b.LiquidationIndexSnapshot = pool.LiquidationIndex
	b.ExpenseIndexSnapshot = pool.ExpenseIndex
}

// Accrue credits collateral and expense earned since the last snapshot
func (b *Bid) Accrue(liquidationIndex, expenseIndex math.LegacyDec) error {
	liqDelta := liquidationIndex.Sub(b.LiquidationIndexSnapshot)
	expDelta := expenseIndex.Sub(b.ExpenseIndexSnapshot)
	if liqDelta.IsNegative() || expDelta.IsNegative() {
		return errorsmod.Wrapf(ErrBidInvariant, "bid %d snapshot ahead of pool index", b.Idx)
	}
	if b.Share.IsPositive() {
		b.PendingLiquidatedCollateral = b.PendingLiquidatedCollateral.Add(b.Share.MulTruncate(liqDelta))
		b.Spent = b.Spent.Add(b.Share.MulTruncate(expDelta))
	}
	b.LiquidationIndexSnapshot = liquidationIndex
	b.ExpenseIndexSnapshot = expenseIndex
	return nil
}

// Checkpoint brings an active bid up to date with its pool. A bid minted in
// a retired epoch settles against that epoch's final indices and trades its
// share for its part of the epoch residual.
func (b *Bid) Checkpoint(pool *BidPool, retired *EpochRecord) error {
	if !b.IsActive() {
		return nil
	}
	if b.Epoch < pool.Epoch {
		if retired == nil {
			return errorsmod.Wrapf(ErrBidInvariant, "bid %d epoch %d has no retired record", b.Idx, b.Epoch)
		}
		if err := b.Accrue(retired.LiquidationIndex, retired.ExpenseIndex); err != nil {
			return err
		}
		b.Amount = b.Amount.Add(retired.ResidualOf(b.Share))
		b.Share = math.LegacyZeroDec()
		b.Epoch = pool.Epoch
	}
	return b.Accrue(pool.LiquidationIndex, pool.ExpenseIndex)
}

// TakeClaimable removes the integral part of the pending collateral and
// returns it. The fractional residue stays on the bid.
func (b *Bid) TakeClaimable() math.Int {
	payout := b.PendingLiquidatedCollateral.TruncateInt()
	b.PendingLiquidatedCollateral = b.PendingLiquidatedCollateral.Sub(math.LegacyNewDecFromInt(payout))
	return payout
}

// IsClosed reports a bid with nothing left to withdraw or claim
func (b *Bid) IsClosed() bool {
	return b.Share.IsZero() && b.Amount.IsZero() && b.PendingLiquidatedCollateral.TruncateInt().IsZero()
}
