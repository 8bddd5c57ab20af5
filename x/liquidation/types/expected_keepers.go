package types

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected bank keeper
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// PriceResponse is the oracle answer for a base/quote pair
type PriceResponse struct {
	Rate             math.LegacyDec
	LastUpdatedBase  int64
	LastUpdatedQuote int64
}

// OracleKeeper defines the expected price source
type OracleKeeper interface {
	QueryPrice(ctx sdk.Context, feeder, base, quote string) (PriceResponse, error)
}
