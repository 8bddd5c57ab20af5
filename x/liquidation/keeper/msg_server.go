package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// MsgServer defines the liquidation MsgServer
type MsgServer struct {
	keeper *Keeper
}

var _ types.MsgServer = (*MsgServer)(nil)

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// SubmitBid handles MsgSubmitBid
func (m *MsgServer) SubmitBid(ctx context.Context, msg *types.MsgSubmitBid) (*types.MsgSubmitBidResponse, error) {
	amount, err := types.ParsePositiveCoin(msg.Amount)
	if err != nil {
		return nil, err
	}
	bid, err := m.keeper.SubmitBid(ctx, msg.Bidder, msg.CollateralToken, msg.PremiumSlot, amount)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgSubmitBidResponse{BidIdx: bid.Idx, Activated: bid.IsActive()}
	if bid.WaitEnd != nil {
		resp.WaitEnd = *bid.WaitEnd
	}
	return resp, nil
}

// RetractBid handles MsgRetractBid
func (m *MsgServer) RetractBid(ctx context.Context, msg *types.MsgRetractBid) (*types.MsgRetractBidResponse, error) {
	amount, err := types.ParseOptionalAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	withdrawn, err := m.keeper.RetractBid(ctx, msg.Bidder, msg.BidIdx, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgRetractBidResponse{Amount: withdrawn.String()}, nil
}

// ActivateBids handles MsgActivateBids
func (m *MsgServer) ActivateBids(ctx context.Context, msg *types.MsgActivateBids) (*types.MsgActivateBidsResponse, error) {
	activated, total, err := m.keeper.ActivateBids(ctx, msg.Bidder, msg.CollateralToken, msg.BidsIdx)
	if err != nil {
		return nil, err
	}
	return &types.MsgActivateBidsResponse{Activated: activated, Amount: total.String()}, nil
}

// ExecuteBid handles MsgExecuteBid
func (m *MsgServer) ExecuteBid(ctx context.Context, msg *types.MsgExecuteBid) (*types.MsgExecuteBidResponse, error) {
	collateral, err := types.ParsePositiveCoin(msg.Collateral)
	if err != nil {
		return nil, err
	}
	record, err := m.keeper.ExecuteBid(ctx, msg.Sender, msg.Liquidator, msg.RepayAddress, msg.FeeAddress, collateral)
	if err != nil {
		return nil, err
	}
	return &types.MsgExecuteBidResponse{
		RecordID:        record.ID,
		StableRecovered: record.StableRecovered.String(),
		RepayAmount:     record.RepayAmount.String(),
		BidFee:          record.BidFee.String(),
		LiquidatorFee:   record.LiquidatorFee.String(),
	}, nil
}

// ClaimLiquidations handles MsgClaimLiquidations
func (m *MsgServer) ClaimLiquidations(ctx context.Context, msg *types.MsgClaimLiquidations) (*types.MsgClaimLiquidationsResponse, error) {
	claimed, err := m.keeper.ClaimLiquidations(ctx, msg.Bidder, msg.CollateralToken, msg.BidsIdx)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimLiquidationsResponse{Amount: claimed.String()}, nil
}

// WhitelistCollateral handles MsgWhitelistCollateral
func (m *MsgServer) WhitelistCollateral(ctx context.Context, msg *types.MsgWhitelistCollateral) (*types.MsgWhitelistCollateralResponse, error) {
	info, err := msg.CollateralInfo()
	if err != nil {
		return nil, err
	}
	if err := m.keeper.WhitelistCollateral(ctx, msg.Owner, info); err != nil {
		return nil, err
	}
	return &types.MsgWhitelistCollateralResponse{}, nil
}

// UpdateCollateralInfo handles MsgUpdateCollateralInfo
func (m *MsgServer) UpdateCollateralInfo(ctx context.Context, msg *types.MsgUpdateCollateralInfo) (*types.MsgUpdateCollateralInfoResponse, error) {
	var threshold *math.Int
	if msg.BidThreshold != "" {
		v, ok := math.NewIntFromString(msg.BidThreshold)
		if !ok || v.IsNegative() {
			return nil, errorsmod.Wrapf(types.ErrInvalidAmount, "bid threshold %q", msg.BidThreshold)
		}
		threshold = &v
	}
	if err := m.keeper.UpdateCollateralInfo(ctx, msg.Owner, msg.CollateralToken, threshold, msg.MaxSlot); err != nil {
		return nil, err
	}
	return &types.MsgUpdateCollateralInfoResponse{}, nil
}

// UpdateConfig handles MsgUpdateConfig
func (m *MsgServer) UpdateConfig(ctx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	current, err := m.keeper.GetConfig(sdk.UnwrapSDKContext(ctx))
	if err != nil {
		return nil, err
	}
	cfg, err := msg.Apply(current)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.UpdateConfig(ctx, msg.Owner, cfg); err != nil {
		return nil, err
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

// NewHandler routes every liquidation message to its MsgServer method
func NewHandler(k *Keeper) func(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
	server := NewMsgServerImpl(k)

	return func(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())
		if v, ok := msg.(interface{ ValidateBasic() error }); ok {
			if err := v.ValidateBasic(); err != nil {
				return nil, err
			}
		}

		var (
			res any
			err error
		)
		switch msg := msg.(type) {
		case *types.MsgSubmitBid:
			res, err = server.SubmitBid(ctx, msg)
		case *types.MsgRetractBid:
			res, err = server.RetractBid(ctx, msg)
		case *types.MsgActivateBids:
			res, err = server.ActivateBids(ctx, msg)
		case *types.MsgExecuteBid:
			res, err = server.ExecuteBid(ctx, msg)
		case *types.MsgClaimLiquidations:
			res, err = server.ClaimLiquidations(ctx, msg)
		case *types.MsgWhitelistCollateral:
			res, err = server.WhitelistCollateral(ctx, msg)
		case *types.MsgUpdateCollateralInfo:
			res, err = server.UpdateCollateralInfo(ctx, msg)
		case *types.MsgUpdateConfig:
			res, err = server.UpdateConfig(ctx, msg)
		default:
			return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
		}
		if err != nil {
			return nil, err
		}

		data, _ := json.Marshal(res)
		return &sdk.Result{Data: data, Events: ctx.EventManager().ABCIEvents()}, nil
	}
}
