package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/lendq/x/oracle/types"
)

// GetTxCmd returns the transaction commands for the oracle module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Oracle transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(CmdFeedPrice())
	return cmd
}

// ParsePriceInputs parses denom=price pairs such as uatom=10.5
func ParsePriceInputs(args []string) ([]types.PriceInput, error) {
	inputs := make([]types.PriceInput, 0, len(args))
	for _, arg := range args {
		denom, price, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid price %q, expected denom=price", arg)
		}
		inputs = append(inputs, types.PriceInput{Denom: denom, Price: price})
	}
	return inputs, nil
}

// CmdFeedPrice returns the command to post prices
func CmdFeedPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed-price [denom=price]...",
		Short: "Post prices in the base denom, e.g. feed-price uatom=10.5 uosmo=0.4",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			inputs, err := ParsePriceInputs(args)
			if err != nil {
				return err
			}
			msg := &types.MsgFeedPrice{
				Feeder: clientCtx.GetFromAddress().String(),
				Prices: inputs,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// GetQueryCmd returns the cli query commands for the oracle module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the oracle module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(CmdQueryPrice(), CmdQueryParams())
	return cmd
}

// CmdQueryPrice returns the command to query a feeder's price
func CmdQueryPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price [feeder] [denom]",
		Short: "Query the latest price of a denom posted by a feeder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			bz, _, err := clientCtx.QueryStore(types.PriceKey(args[0], args[1]), types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				return types.ErrPriceNotFound.Wrapf("%s by %s", args[1], args[0])
			}
			return printRaw(clientCtx, bz, &types.PriceInfo{})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryParams returns the command to query the oracle params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the oracle feeders and base denom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			bz, _, err := clientCtx.QueryStore(types.ParamsKey, types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				out, _ := json.MarshalIndent(types.DefaultParams(), "", "  ")
				return clientCtx.PrintString(string(out) + "\n")
			}
			return printRaw(clientCtx, bz, &types.Params{})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

func printRaw(clientCtx client.Context, bz []byte, v any) error {
	if err := json.Unmarshal(bz, v); err != nil {
		return err
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return clientCtx.PrintString(string(out) + "\n")
}
