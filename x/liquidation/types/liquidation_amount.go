package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// CollateralAmount is a (denom, amount) pair of a position's collateral
type CollateralAmount struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// LiquidationAmountRequest describes a position to be liquidated. Prices[i]
// is the stable price of Collaterals[i].
type LiquidationAmountRequest struct {
	BorrowAmount math.Int           `json:"borrow_amount"`
	BorrowLimit  math.Int           `json:"borrow_limit"`
	Collaterals  []CollateralAmount `json:"collaterals"`
	Prices       []math.LegacyDec   `json:"prices"`
}

// ComputeLiquidationAmount returns the collateral to sell so that, after the
// sale, the position's borrow is back under safe_ratio x borrow_limit.
//
// With V_i the collateral values and d_i = (1 - max_premium_i)(1 - fees), the
// sold fraction is r = (B - sr*L) / (sum V_i*d_i - sr*L), capped at 1. Small
// positions under the liquidation threshold are sold in full.
func ComputeLiquidationAmount(cfg Config, infos map[string]CollateralInfo, req LiquidationAmountRequest) ([]CollateralAmount, error) {
	if len(req.Collaterals) != len(req.Prices) {
		return nil, errorsmod.Wrapf(ErrInvalidRequest, "%d collaterals, %d prices", len(req.Collaterals), len(req.Prices))
	}
	if req.BorrowAmount.IsNil() || req.BorrowLimit.IsNil() || req.BorrowAmount.IsNegative() || req.BorrowLimit.IsNegative() {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "borrow amount and limit must not be negative")
	}
	if req.BorrowAmount.LTE(req.BorrowLimit) {
		return []CollateralAmount{}, nil
	}

	feeDeductor := cfg.FeeDeductor()
	totalValue := math.LegacyZeroDec()
	discounted := math.LegacyZeroDec()
	for i, c := range req.Collaterals {
		price := req.Prices[i]
		if price.IsNil() || price.IsNegative() {
			return nil, errorsmod.Wrapf(ErrInvalidPrice, "%s price %s", c.Denom, price)
		}
		if c.Amount.IsNil() || c.Amount.IsNegative() {
			return nil, errorsmod.Wrapf(ErrInvalidAmount, "%s amount %s", c.Denom, c.Amount)
		}
		info, ok := infos[c.Denom]
		if !ok {
			return nil, errorsmod.Wrap(ErrCollateralNotWhitelisted, c.Denom)
		}
		value := math.LegacyNewDecFromInt(c.Amount).Mul(price)
		totalValue = totalValue.Add(value)
		discounted = discounted.Add(value.
			Mul(math.LegacyOneDec().Sub(info.MaxPremiumRate())).
			Mul(feeDeductor))
	}

	if totalValue.LTE(math.LegacyNewDecFromInt(cfg.LiquidationThreshold)) {
		return nonZero(req.Collaterals), nil
	}

	safeBorrow := math.LegacyNewDecFromInt(req.BorrowLimit).Mul(cfg.SafeRatio)
	numerator := math.LegacyNewDecFromInt(req.BorrowAmount).Sub(safeBorrow)
	denominator := discounted.Sub(safeBorrow)

	ratio := math.LegacyOneDec()
	if denominator.IsPositive() {
		ratio = math.LegacyMinDec(numerator.Quo(denominator), math.LegacyOneDec())
	}

	out := make([]CollateralAmount, 0, len(req.Collaterals))
	for _, c := range req.Collaterals {
		amount := math.LegacyNewDecFromInt(c.Amount).Mul(ratio).Ceil().TruncateInt()
		amount = math.MinInt(amount, c.Amount)
		if amount.IsPositive() {
			out = append(out, CollateralAmount{Denom: c.Denom, Amount: amount})
		}
	}
	return out, nil
}

func nonZero(collaterals []CollateralAmount) []CollateralAmount {
	out := make([]CollateralAmount, 0, len(collaterals))
	for _, c := range collaterals {
		if c.Amount.IsPositive() {
			out = append(out, c)
		}
	}
	return out
}
