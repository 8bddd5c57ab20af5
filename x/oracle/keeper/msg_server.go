package keeper

import (
	"context"

	"github.com/openalpha/lendq/x/oracle/types"
)

// MsgServer defines the oracle MsgServer
type MsgServer struct {
	keeper *Keeper
}

var _ types.MsgServer = (*MsgServer)(nil)

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// FeedPrice handles MsgFeedPrice
func (m *MsgServer) FeedPrice(ctx context.Context, msg *types.MsgFeedPrice) (*types.MsgFeedPriceResponse, error) {
	prices, err := msg.ParsePrices()
	if err != nil {
		return nil, err
	}
	if err := m.keeper.FeedPrices(ctx, msg.Feeder, prices); err != nil {
		return nil, err
	}
	return &types.MsgFeedPriceResponse{Updated: len(prices)}, nil
}
