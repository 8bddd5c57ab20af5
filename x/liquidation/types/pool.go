package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MinExchangeRate is the stable per share under which a pool epoch is
// retired. Below it new deposits would mint share so large that execution
// indices lose their precision.
var MinExchangeRate = math.LegacyNewDecWithPrec(1, 6)

// BidPool aggregates every active bid of a (collateral, slot) pair.
// Bidders own share of the pool; executions consume stable from the pool and
// credit collateral through the liquidation index.
type BidPool struct {
	CollateralToken string         `json:"collateral_token"`
	Slot            uint32         `json:"slot"`
	PremiumRate     math.LegacyDec `json:"premium_rate"`
	TotalBidAmount  math.Int       `json:"total_bid_amount"`
	TotalShare      math.LegacyDec `json:"total_share"`
	// LiquidationIndex is the cumulative collateral bought per unit of share
	LiquidationIndex math.LegacyDec `json:"liquidation_index"`
	// ExpenseIndex is the cumulative stable spent per unit of share
	ExpenseIndex math.LegacyDec `json:"expense_index"`
	Epoch        uint64         `json:"epoch"`
}

// NewBidPool creates an empty pool
func NewBidPool(collateral string, slot uint32, premiumRate math.LegacyDec) *BidPool {
	return &BidPool{
		CollateralToken:  collateral,
		Slot:             slot,
		PremiumRate:      premiumRate,
		TotalBidAmount:   math.ZeroInt(),
		TotalShare:       math.LegacyZeroDec(),
		LiquidationIndex: math.LegacyZeroDec(),
		ExpenseIndex:     math.LegacyZeroDec(),
	}
}

// EpochRecord keeps the final indices of a retired pool epoch. Bids minted
// in that epoch settle against these values and split Residual, the stable
// left in the pool at retirement, pro rata to their share of TotalShare.
type EpochRecord struct {
	CollateralToken  string         `json:"collateral_token"`
	Slot             uint32         `json:"slot"`
	Epoch            uint64         `json:"epoch"`
	LiquidationIndex math.LegacyDec `json:"liquidation_index"`
	ExpenseIndex     math.LegacyDec `json:"expense_index"`
	TotalShare       math.LegacyDec `json:"total_share"`
	Residual         math.Int       `json:"residual"`
}

// ResidualOf returns the stable owed to share of the retired epoch, truncated
func (r EpochRecord) ResidualOf(share math.LegacyDec) math.Int {
	if r.Residual.IsNil() || !r.Residual.IsPositive() || r.TotalShare.IsNil() || !r.TotalShare.IsPositive() || !share.IsPositive() {
		return math.ZeroInt()
	}
	if share.GTE(r.TotalShare) {
		return r.Residual
	}
	return math.LegacyNewDecFromInt(r.Residual).
		MulTruncate(share).
		QuoTruncate(r.TotalShare).
		TruncateInt()
}

// IsEmpty reports a pool no execution can draw from
func (p *BidPool) IsEmpty() bool {
	return !p.TotalBidAmount.IsPositive() || !p.TotalShare.IsPositive()
}

// IsDrained reports outstanding share backed by no stable, or by so little
// that its exchange rate fell under MinExchangeRate
func (p *BidPool) IsDrained() bool {
	if !p.TotalShare.IsPositive() {
		return false
	}
	return p.TotalBidAmount.IsZero() || p.ExchangeRate().LT(MinExchangeRate)
}

// ExchangeRate returns stable per unit of share, 1 for a fresh pool
func (p *BidPool) ExchangeRate() math.LegacyDec {
	if p.TotalShare.IsZero() {
		return math.LegacyOneDec()
	}
	return math.LegacyNewDecFromInt(p.TotalBidAmount).Quo(p.TotalShare)
}

// SharesForDeposit returns the share minted for amount, truncated in favour
// of the pool
func (p *BidPool) SharesForDeposit(amount math.Int) (math.LegacyDec, error) {
	if !amount.IsPositive() {
		return math.LegacyZeroDec(), errorsmod.Wrapf(ErrInvalidAmount, "deposit %s", amount)
	}
	if p.TotalShare.IsZero() {
		if !p.TotalBidAmount.IsZero() {
			return math.LegacyZeroDec(), errorsmod.Wrapf(ErrPoolInvariant,
				"pool %s/%d holds %s without share", p.CollateralToken, p.Slot, p.TotalBidAmount)
		}
		return math.LegacyNewDecFromInt(amount), nil
	}
	if p.IsDrained() {
		return math.LegacyZeroDec(), errorsmod.Wrapf(ErrPoolInvariant,
			"pool %s/%d epoch %d is drained", p.CollateralToken, p.Slot, p.Epoch)
	}

	share := math.LegacyNewDecFromInt(amount).
		MulTruncate(p.TotalShare).
		QuoTruncate(math.LegacyNewDecFromInt(p.TotalBidAmount))
	if !share.IsPositive() {
		return math.LegacyZeroDec(), errorsmod.Wrapf(ErrBidTooSmall, "deposit %s", amount)
	}
	return share, nil
}

// Deposit adds amount to the pool and returns the share minted
func (p *BidPool) Deposit(amount math.Int) (math.LegacyDec, error) {
	share, err := p.SharesForDeposit(amount)
	if err != nil {
		return share, err
	}
	p.TotalBidAmount = p.TotalBidAmount.Add(amount)
	p.TotalShare = p.TotalShare.Add(share)
	return share, nil
}

// ValueOfShares returns the stable claim of share, truncated. The last share
// holder receives the whole balance.
func (p *BidPool) ValueOfShares(share math.LegacyDec) math.Int {
	if !share.IsPositive() || p.TotalShare.IsZero() {
		return math.ZeroInt()
	}
	if share.GTE(p.TotalShare) {
		return p.TotalBidAmount
	}
	return math.LegacyNewDecFromInt(p.TotalBidAmount).
		MulTruncate(share).
		QuoTruncate(p.TotalShare).
		TruncateInt()
}

// SharesForWithdrawal returns the share burnt to withdraw amount, rounded up
// so withdrawals never take more than they burn
func (p *BidPool) SharesForWithdrawal(amount math.Int) math.LegacyDec {
	if !amount.IsPositive() || p.TotalBidAmount.IsZero() {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromInt(amount).
		MulRoundUp(p.TotalShare).
		QuoRoundUp(math.LegacyNewDecFromInt(p.TotalBidAmount))
}

// Withdraw burns share and removes amount from the pool
func (p *BidPool) Withdraw(share math.LegacyDec, amount math.Int) error {
	if share.GT(p.TotalShare) {
		return errorsmod.Wrapf(ErrPoolInvariant, "burn %s share of %s", share, p.TotalShare)
	}
	if amount.GT(p.TotalBidAmount) {
		return errorsmod.Wrapf(ErrPoolInvariant, "withdraw %s of %s", amount, p.TotalBidAmount)
	}
	p.TotalShare = p.TotalShare.Sub(share)
	p.TotalBidAmount = p.TotalBidAmount.Sub(amount)
	return nil
}

// Consume records an execution fill. Both indices grow against the share
// outstanding before the fill; only then is the stable removed.
func (p *BidPool) Consume(stableSpent, collateralBought math.Int) error {
	if !p.TotalShare.IsPositive() {
		return errorsmod.Wrapf(ErrPoolInvariant, "consume from pool %s/%d without share", p.CollateralToken, p.Slot)
	}
	if stableSpent.GT(p.TotalBidAmount) {
		return errorsmod.Wrapf(ErrPoolInvariant, "spend %s of %s", stableSpent, p.TotalBidAmount)
	}

	p.LiquidationIndex = p.LiquidationIndex.Add(math.LegacyNewDecFromInt(collateralBought).QuoTruncate(p.TotalShare))
	p.ExpenseIndex = p.ExpenseIndex.Add(math.LegacyNewDecFromInt(stableSpent).QuoTruncate(p.TotalShare))
	p.TotalBidAmount = p.TotalBidAmount.Sub(stableSpent)
	return nil
}

// RetireEpoch closes a drained epoch: the outstanding share is written off,
// any leftover stable moves out of the pool into the record, and the next
// deposit mints 1:1 again. Indices carry over.
func (p *BidPool) RetireEpoch() EpochRecord {
	record := EpochRecord{
		CollateralToken:  p.CollateralToken,
		Slot:             p.Slot,
		Epoch:            p.Epoch,
		LiquidationIndex: p.LiquidationIndex,
		ExpenseIndex:     p.ExpenseIndex,
		TotalShare:       p.TotalShare,
		Residual:         p.TotalBidAmount,
	}
	p.TotalShare = math.LegacyZeroDec()
	p.TotalBidAmount = math.ZeroInt()
	p.Epoch++
	return record
}

// DiscountedPrice returns price x (1 - premium)
func (p *BidPool) DiscountedPrice(price math.LegacyDec) math.LegacyDec {
	return price.Mul(math.LegacyOneDec().Sub(p.PremiumRate))
}
