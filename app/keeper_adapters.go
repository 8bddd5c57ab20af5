package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	liquidationtypes "github.com/openalpha/lendq/x/liquidation/types"
	oraclekeeper "github.com/openalpha/lendq/x/oracle/keeper"
)

type liquidationOracleAdapter struct {
	keeper *oraclekeeper.Keeper
}

func newLiquidationOracleAdapter(keeper *oraclekeeper.Keeper) liquidationtypes.OracleKeeper {
	return liquidationOracleAdapter{keeper: keeper}
}

func (a liquidationOracleAdapter) QueryPrice(ctx sdk.Context, feeder, base, quote string) (liquidationtypes.PriceResponse, error) {
	if a.keeper == nil {
		return liquidationtypes.PriceResponse{}, liquidationtypes.ErrInvalidPrice.Wrap("oracle keeper not set")
	}

	resp, err := a.keeper.QueryPrice(ctx, feeder, base, quote)
	if err != nil {
		return liquidationtypes.PriceResponse{}, err
	}

	return liquidationtypes.PriceResponse{
		Rate:             resp.Rate,
		LastUpdatedBase:  resp.LastUpdatedBase,
		LastUpdatedQuote: resp.LastUpdatedQuote,
	}, nil
}
