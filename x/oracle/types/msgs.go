package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const TypeMsgFeedPrice = "feed_price"

// PriceInput is a single posted price in the base denom
type PriceInput struct {
	Denom string `json:"denom"`
	Price string `json:"price"`
}

// MsgFeedPrice posts prices from a registered feeder
type MsgFeedPrice struct {
	Feeder string       `json:"feeder"`
	Prices []PriceInput `json:"prices"`
}

// Route implements sdk.Msg
func (msg MsgFeedPrice) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgFeedPrice) Type() string { return TypeMsgFeedPrice }

// ValidateBasic implements sdk.Msg
func (msg MsgFeedPrice) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Feeder); err != nil {
		return errorsmod.Wrapf(ErrUnauthorizedFeeder, "feeder: %s", err)
	}
	_, err := msg.ParsePrices()
	return err
}

// ParsePrices returns the posted prices keyed by denom
func (msg MsgFeedPrice) ParsePrices() (map[string]math.LegacyDec, error) {
	if len(msg.Prices) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidPrice, "no prices")
	}
	prices := make(map[string]math.LegacyDec, len(msg.Prices))
	for _, p := range msg.Prices {
		if err := sdk.ValidateDenom(p.Denom); err != nil {
			return nil, errorsmod.Wrapf(ErrInvalidDenom, "%q: %s", p.Denom, err)
		}
		if _, dup := prices[p.Denom]; dup {
			return nil, errorsmod.Wrapf(ErrInvalidPrice, "duplicate denom %s", p.Denom)
		}
		price, err := math.LegacyNewDecFromStr(p.Price)
		if err != nil || !price.IsPositive() {
			return nil, errorsmod.Wrapf(ErrInvalidPrice, "%s: %q", p.Denom, p.Price)
		}
		prices[p.Denom] = price
	}
	return prices, nil
}

// GetSigners implements sdk.Msg
func (msg MsgFeedPrice) GetSigners() []sdk.AccAddress {
	feeder, _ := sdk.AccAddressFromBech32(msg.Feeder)
	return []sdk.AccAddress{feeder}
}

// ProtoMessage implements proto.Message
func (*MsgFeedPrice) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgFeedPrice) Reset() { *msg = MsgFeedPrice{} }

// String implements proto.Message
func (msg MsgFeedPrice) String() string {
	return fmt.Sprintf("MsgFeedPrice{Feeder: %s, Prices: %v}", msg.Feeder, msg.Prices)
}

// XXX_MessageName returns the message type URL
func (*MsgFeedPrice) XXX_MessageName() string { return "lendq.oracle.v1.MsgFeedPrice" }

// MsgFeedPriceResponse defines the FeedPrice response
type MsgFeedPriceResponse struct {
	Updated int `json:"updated"`
}

// MsgServer defines the oracle module's message service
type MsgServer interface {
	FeedPrice(context.Context, *MsgFeedPrice) (*MsgFeedPriceResponse, error)
}

// RegisterLegacyAminoCodec registers the module messages on the amino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgFeedPrice{}, "oracle/FeedPrice", nil)
}

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgFeedPrice{},
	)
}
