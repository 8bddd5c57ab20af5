package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/lendq/x/liquidation/types"
)

// GetQueryCmd returns the cli query commands for the liquidation module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the liquidation module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryConfig(),
		CmdQueryCollateral(),
		CmdQueryCollaterals(),
		CmdQueryBid(),
		CmdQueryBidsByUser(),
		CmdQueryBidPool(),
		CmdQueryBidPools(),
		CmdQueryTotalBids(),
		CmdQueryLiquidations(),
		CmdQueryLiquidationAmount(),
	)

	return cmd
}

func queryCmd(use, short string, args cobra.PositionalArgs, run func(r StoreReader, args []string) (any, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			out, err := run(NewStoreReader(clientCtx), args)
			if err != nil {
				return err
			}
			output, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return clientCtx.PrintString(string(output) + "\n")
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryConfig returns the command to query the module config
func CmdQueryConfig() *cobra.Command {
	return queryCmd("config", "Query the liquidation config", cobra.NoArgs,
		func(r StoreReader, _ []string) (any, error) {
			return r.Config()
		})
}

// CmdQueryCollateral returns the command to query a collateral's registry entry
func CmdQueryCollateral() *cobra.Command {
	return queryCmd("collateral [denom]", "Query a whitelisted collateral", cobra.ExactArgs(1),
		func(r StoreReader, args []string) (any, error) {
			return r.CollateralInfo(args[0])
		})
}

// CmdQueryCollaterals returns the command to list whitelisted collaterals
func CmdQueryCollaterals() *cobra.Command {
	return queryCmd("collaterals", "Query every whitelisted collateral", cobra.NoArgs,
		func(r StoreReader, _ []string) (any, error) {
			return r.CollateralInfos()
		})
}

// CmdQueryBid returns the command to query a bid
func CmdQueryBid() *cobra.Command {
	return queryCmd("bid [idx]", "Query a bid with its claimable collateral", cobra.ExactArgs(1),
		func(r StoreReader, args []string) (any, error) {
			idx, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid bid idx: %v", err)
			}
			return r.Bid(idx)
		})
}

// CmdQueryBidsByUser returns the command to query a bidder's bids
func CmdQueryBidsByUser() *cobra.Command {
	return queryCmd("bids-by-user [collateral] [bidder]", "Query a bidder's bids for a collateral", cobra.ExactArgs(2),
		func(r StoreReader, args []string) (any, error) {
			return r.BidsByUser(args[0], args[1])
		})
}

// CmdQueryBidPool returns the command to query a slot's pool
func CmdQueryBidPool() *cobra.Command {
	return queryCmd("bid-pool [collateral] [slot]", "Query the bid pool of a premium slot", cobra.ExactArgs(2),
		func(r StoreReader, args []string) (any, error) {
			slot, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid slot: %v", err)
			}
			return r.BidPool(args[0], uint32(slot))
		})
}

// CmdQueryBidPools returns the command to query every pool of a collateral
func CmdQueryBidPools() *cobra.Command {
	return queryCmd("bid-pools [collateral]", "Query the bid pools of a collateral by slot", cobra.ExactArgs(1),
		func(r StoreReader, args []string) (any, error) {
			return r.BidPools(args[0])
		})
}

// CmdQueryTotalBids returns the command to query the active stable of a collateral
func CmdQueryTotalBids() *cobra.Command {
	return queryCmd("total-bids [collateral]", "Query the active bids queued for a collateral", cobra.ExactArgs(1),
		func(r StoreReader, args []string) (any, error) {
			pools, err := r.BidPools(args[0])
			if err != nil {
				return nil, err
			}
			total := math.ZeroInt()
			for _, pool := range pools {
				total = total.Add(pool.TotalBidAmount)
			}
			return map[string]string{"collateral": args[0], "total": total.String()}, nil
		})
}

// CmdQueryLiquidations returns the command to query the execution history
func CmdQueryLiquidations() *cobra.Command {
	return queryCmd("liquidations", "Query executed liquidations", cobra.NoArgs,
		func(r StoreReader, _ []string) (any, error) {
			return r.LiquidationRecords()
		})
}

// CmdQueryLiquidationAmount returns the command to simulate a liquidation
func CmdQueryLiquidationAmount() *cobra.Command {
	cmd := queryCmd(
		"liquidation-amount [borrow-amount] [borrow-limit] [collaterals] [prices]",
		"Compute the collateral a position must sell, e.g. 6000 5000 1000uatom,50uosmo 10,2.5",
		cobra.ExactArgs(4),
		func(r StoreReader, args []string) (any, error) {
			req, err := ParseLiquidationAmountRequest(args[0], args[1], args[2], args[3])
			if err != nil {
				return nil, err
			}
			cfg, err := r.Config()
			if err != nil {
				return nil, err
			}
			infos := make(map[string]types.CollateralInfo, len(req.Collaterals))
			for _, c := range req.Collaterals {
				info, err := r.CollateralInfo(c.Denom)
				if err != nil {
					return nil, err
				}
				infos[c.Denom] = *info
			}
			return types.ComputeLiquidationAmount(*cfg, infos, req)
		})
	cmd.Long = "Compute the collateral a position must sell to return under the safe ratio. " +
		"Collaterals are comma separated coins; prices are the stable price of each collateral in the same order."
	return cmd
}

// ParseLiquidationAmountRequest parses the positional liquidation-amount args
func ParseLiquidationAmountRequest(borrowAmount, borrowLimit, collaterals, prices string) (types.LiquidationAmountRequest, error) {
	var req types.LiquidationAmountRequest

	amount, ok := math.NewIntFromString(borrowAmount)
	if !ok {
		return req, fmt.Errorf("invalid borrow amount %q", borrowAmount)
	}
	limit, ok := math.NewIntFromString(borrowLimit)
	if !ok {
		return req, fmt.Errorf("invalid borrow limit %q", borrowLimit)
	}
	req.BorrowAmount = amount
	req.BorrowLimit = limit

	for _, s := range strings.Split(collaterals, ",") {
		coin, err := types.ParsePositiveCoin(strings.TrimSpace(s))
		if err != nil {
			return req, err
		}
		req.Collaterals = append(req.Collaterals, types.CollateralAmount{Denom: coin.Denom, Amount: coin.Amount})
	}
	for _, s := range strings.Split(prices, ",") {
		price, err := math.LegacyNewDecFromStr(strings.TrimSpace(s))
		if err != nil {
			return req, fmt.Errorf("invalid price %q: %v", s, err)
		}
		req.Prices = append(req.Prices, price)
	}
	if len(req.Collaterals) != len(req.Prices) {
		return req, fmt.Errorf("%d collaterals but %d prices", len(req.Collaterals), len(req.Prices))
	}
	return req, nil
}
