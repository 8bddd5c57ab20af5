package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lendq/x/liquidation/types"
)

const (
	FlagLiquidator           = "liquidator"
	FlagRepayAddress         = "repay-address"
	FlagFeeAddress           = "fee-address"
	FlagBidThreshold         = "bid-threshold"
	FlagMaxSlot              = "max-slot"
	FlagNewOwner             = "new-owner"
	FlagOracleAddr           = "oracle-addr"
	FlagSafeRatio            = "safe-ratio"
	FlagBidFee               = "bid-fee"
	FlagLiquidatorFee        = "liquidator-fee"
	FlagLiquidationThreshold = "liquidation-threshold"
	FlagPriceTimeframe       = "price-timeframe"
	FlagWaitingPeriod        = "waiting-period"
	FlagSingleBidPerSlot     = "single-bid-per-slot"
)

// GetTxCmd returns the transaction commands for the liquidation module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Liquidation queue transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdSubmitBid(),
		CmdRetractBid(),
		CmdActivateBids(),
		CmdExecuteBid(),
		CmdClaimLiquidations(),
		CmdWhitelistCollateral(),
		CmdUpdateCollateral(),
		CmdUpdateConfig(),
	)

	return cmd
}

func parseIdxs(args []string) ([]uint64, error) {
	idxs := make([]uint64, 0, len(args))
	for _, arg := range args {
		idx, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bid idx %q: %v", arg, err)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

func broadcast(cmd *cobra.Command, build func(clientCtx client.Context, from string) (sdk.Msg, error)) error {
	clientCtx, err := client.GetClientTxContext(cmd)
	if err != nil {
		return err
	}
	msg, err := build(clientCtx, clientCtx.GetFromAddress().String())
	if err != nil {
		return err
	}
	if v, ok := msg.(interface{ ValidateBasic() error }); ok {
		if err := v.ValidateBasic(); err != nil {
			return err
		}
	}
	return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
}

// CmdSubmitBid returns the command to submit a bid
func CmdSubmitBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-bid [collateral] [premium-slot] [amount]",
		Short: "Queue stable into a premium slot, e.g. submit-bid uatom 2 1000000uusd",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid premium slot: %v", err)
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgSubmitBid{
					Bidder:          from,
					CollateralToken: args[0],
					PremiumSlot:     uint32(slot),
					Amount:          args[2],
				}, nil
			})
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRetractBid returns the command to withdraw stable from a bid
func CmdRetractBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retract-bid [idx] [amount]",
		Short: "Withdraw stable from a bid; without amount the whole bid is retracted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bid idx: %v", err)
			}
			amount := ""
			if len(args) == 2 {
				amount = args[1]
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgRetractBid{Bidder: from, BidIdx: idx, Amount: amount}, nil
			})
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdActivateBids returns the command to activate waiting bids
func CmdActivateBids() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate-bids [collateral] [idx]...",
		Short: "Activate waiting bids; without idx every eligible bid is activated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idxs, err := parseIdxs(args[1:])
			if err != nil {
				return err
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgActivateBids{Bidder: from, CollateralToken: args[0], BidsIdx: idxs}, nil
			})
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdExecuteBid returns the command to sell collateral into the queue
func CmdExecuteBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute-bid [collateral]",
		Short: "Sell collateral into the bid queue, e.g. execute-bid 1000000uatom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			liquidator, _ := cmd.Flags().GetString(FlagLiquidator)
			repay, _ := cmd.Flags().GetString(FlagRepayAddress)
			fee, _ := cmd.Flags().GetString(FlagFeeAddress)
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				if liquidator == "" {
					liquidator = from
				}
				return &types.MsgExecuteBid{
					Sender:       from,
					Liquidator:   liquidator,
					RepayAddress: repay,
					FeeAddress:   fee,
					Collateral:   args[0],
				}, nil
			})
		},
	}

	cmd.Flags().String(FlagLiquidator, "", "Address receiving the liquidator fee (defaults to sender)")
	cmd.Flags().String(FlagRepayAddress, "", "Address receiving the repay amount (defaults to sender)")
	cmd.Flags().String(FlagFeeAddress, "", "Address receiving the bid fee (defaults to sender)")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimLiquidations returns the command to claim bought collateral
func CmdClaimLiquidations() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-liquidations [collateral] [idx]...",
		Short: "Claim collateral bought by your bids; without idx every bid is claimed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idxs, err := parseIdxs(args[1:])
			if err != nil {
				return err
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgClaimLiquidations{Bidder: from, CollateralToken: args[0], BidsIdx: idxs}, nil
			})
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWhitelistCollateral returns the command to register a collateral
func CmdWhitelistCollateral() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist-collateral [denom] [custody] [bid-threshold] [max-slot] [premium-rate-per-slot]",
		Short: "Register a collateral queue (owner only)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSlot, err := strconv.ParseUint(args[3], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid max slot: %v", err)
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgWhitelistCollateral{
					Owner:              from,
					CollateralToken:    args[0],
					Custody:            args[1],
					BidThreshold:       args[2],
					MaxSlot:            uint32(maxSlot),
					PremiumRatePerSlot: args[4],
				}, nil
			})
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateCollateral returns the command to change a collateral's queue parameters
func CmdUpdateCollateral() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-collateral [denom]",
		Short: "Change the bid threshold or max slot of a collateral (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetString(FlagBidThreshold)
			maxSlot, _ := cmd.Flags().GetUint32(FlagMaxSlot)
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				return &types.MsgUpdateCollateralInfo{
					Owner:           from,
					CollateralToken: args[0],
					BidThreshold:    threshold,
					MaxSlot:         maxSlot,
				}, nil
			})
		},
	}

	cmd.Flags().String(FlagBidThreshold, "", "New bid threshold")
	cmd.Flags().Uint32(FlagMaxSlot, 0, "New max slot")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateConfig returns the command to change the module config
func CmdUpdateConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Change the liquidation config (owner only); unset flags are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			msg := &types.MsgUpdateConfig{}
			msg.NewOwner, _ = f.GetString(FlagNewOwner)
			msg.OracleAddr, _ = f.GetString(FlagOracleAddr)
			msg.SafeRatio, _ = f.GetString(FlagSafeRatio)
			msg.BidFee, _ = f.GetString(FlagBidFee)
			msg.LiquidatorFee, _ = f.GetString(FlagLiquidatorFee)
			msg.LiquidationThreshold, _ = f.GetString(FlagLiquidationThreshold)
			if f.Changed(FlagPriceTimeframe) {
				v, _ := f.GetUint64(FlagPriceTimeframe)
				msg.PriceTimeframe = &v
			}
			if f.Changed(FlagWaitingPeriod) {
				v, _ := f.GetUint64(FlagWaitingPeriod)
				msg.WaitingPeriod = &v
			}
			if f.Changed(FlagSingleBidPerSlot) {
				v, _ := f.GetBool(FlagSingleBidPerSlot)
				msg.SingleBidPerSlot = &v
			}
			return broadcast(cmd, func(_ client.Context, from string) (sdk.Msg, error) {
				msg.Owner = from
				return msg, nil
			})
		},
	}

	cmd.Flags().String(FlagNewOwner, "", "Transfer ownership to this address")
	cmd.Flags().String(FlagOracleAddr, "", "Price feeder address")
	cmd.Flags().String(FlagSafeRatio, "", "Target borrow/limit ratio after liquidation")
	cmd.Flags().String(FlagBidFee, "", "Fee rate taken from recovered stable")
	cmd.Flags().String(FlagLiquidatorFee, "", "Liquidator fee rate")
	cmd.Flags().String(FlagLiquidationThreshold, "", "Collateral value sold in full below this")
	cmd.Flags().Uint64(FlagPriceTimeframe, 0, "Maximum price age in seconds")
	cmd.Flags().Uint64(FlagWaitingPeriod, 0, "Bid waiting period in seconds")
	cmd.Flags().Bool(FlagSingleBidPerSlot, false, "Allow one bid per bidder per slot")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
