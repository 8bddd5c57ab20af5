package types

import (
	"math"

	sdkmath "cosmossdk.io/math"
)

// PriceInfo is the latest price of denom in the base denom posted by feeder
type PriceInfo struct {
	Feeder      string            `json:"feeder"`
	Denom       string            `json:"denom"`
	Price       sdkmath.LegacyDec `json:"price"`
	LastUpdated int64             `json:"last_updated"`
}

// PriceResponse is the rate of base in quote with the update time of each leg
type PriceResponse struct {
	Rate             sdkmath.LegacyDec `json:"rate"`
	LastUpdatedBase  int64             `json:"last_updated_base"`
	LastUpdatedQuote int64             `json:"last_updated_quote"`
}

// BasePrice returns the price of the base denom itself, which never goes stale
func BasePrice(feeder, baseDenom string) PriceInfo {
	return PriceInfo{
		Feeder:      feeder,
		Denom:       baseDenom,
		Price:       sdkmath.LegacyOneDec(),
		LastUpdated: math.MaxInt64,
	}
}
