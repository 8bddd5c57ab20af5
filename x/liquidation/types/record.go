package types

import (
	"cosmossdk.io/math"
)

// Fill is the portion of an execution absorbed by one slot
type Fill struct {
	Slot             uint32   `json:"slot"`
	CollateralBought math.Int `json:"collateral_bought"`
	StableSpent      math.Int `json:"stable_spent"`
}

// LiquidationRecord is the stored history entry of an execution
type LiquidationRecord struct {
	Seq              uint64         `json:"seq"`
	ID               string         `json:"id"`
	CollateralToken  string         `json:"collateral_token"`
	CollateralAmount math.Int       `json:"collateral_amount"`
	Price            math.LegacyDec `json:"price"`
	StableRecovered  math.Int       `json:"stable_recovered"`
	RepayAmount      math.Int       `json:"repay_amount"`
	BidFee           math.Int       `json:"bid_fee"`
	LiquidatorFee    math.Int       `json:"liquidator_fee"`
	Liquidator       string         `json:"liquidator"`
	RepayAddress     string         `json:"repay_address"`
	FeeAddress       string         `json:"fee_address"`
	Height           int64          `json:"height"`
	Time             int64          `json:"time"`
	Fills            []Fill         `json:"fills"`
}
