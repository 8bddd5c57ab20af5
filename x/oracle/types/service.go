package types

import (
	"context"

	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
)

// RegisterMsgServer registers srv on the message service router
func RegisterMsgServer(s gogogrpc.Server, srv MsgServer) {
	s.RegisterService(&msgServiceDesc, srv)
}

func feedPriceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MsgFeedPrice)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).FeedPrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/lendq.oracle.v1.Msg/FeedPrice"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MsgServer).FeedPrice(ctx, req.(*MsgFeedPrice))
	}
	return interceptor(ctx, in, info, handler)
}

var msgServiceDesc = grpc.ServiceDesc{
	ServiceName: "lendq.oracle.v1.Msg",
	HandlerType: (*MsgServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FeedPrice", Handler: feedPriceHandler},
	},
	Metadata: "lendq/oracle/v1/tx.proto",
}
