package types

import (
	"context"

	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the module messages on the amino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgSubmitBid{}, "liquidation/SubmitBid", nil)
	cdc.RegisterConcrete(&MsgRetractBid{}, "liquidation/RetractBid", nil)
	cdc.RegisterConcrete(&MsgActivateBids{}, "liquidation/ActivateBids", nil)
	cdc.RegisterConcrete(&MsgExecuteBid{}, "liquidation/ExecuteBid", nil)
	cdc.RegisterConcrete(&MsgClaimLiquidations{}, "liquidation/ClaimLiquidations", nil)
	cdc.RegisterConcrete(&MsgWhitelistCollateral{}, "liquidation/WhitelistCollateral", nil)
	cdc.RegisterConcrete(&MsgUpdateCollateralInfo{}, "liquidation/UpdateCollateralInfo", nil)
	cdc.RegisterConcrete(&MsgUpdateConfig{}, "liquidation/UpdateConfig", nil)
}

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgSubmitBid{},
		&MsgRetractBid{},
		&MsgActivateBids{},
		&MsgExecuteBid{},
		&MsgClaimLiquidations{},
		&MsgWhitelistCollateral{},
		&MsgUpdateCollateralInfo{},
		&MsgUpdateConfig{},
	)
}

// MsgServer defines the liquidation module's message service
type MsgServer interface {
	SubmitBid(context.Context, *MsgSubmitBid) (*MsgSubmitBidResponse, error)
	RetractBid(context.Context, *MsgRetractBid) (*MsgRetractBidResponse, error)
	ActivateBids(context.Context, *MsgActivateBids) (*MsgActivateBidsResponse, error)
	ExecuteBid(context.Context, *MsgExecuteBid) (*MsgExecuteBidResponse, error)
	ClaimLiquidations(context.Context, *MsgClaimLiquidations) (*MsgClaimLiquidationsResponse, error)
	WhitelistCollateral(context.Context, *MsgWhitelistCollateral) (*MsgWhitelistCollateralResponse, error)
	UpdateCollateralInfo(context.Context, *MsgUpdateCollateralInfo) (*MsgUpdateCollateralInfoResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
}
