package types

import (
	"context"

	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
)

const msgServiceName = "lendq.liquidation.v1.Msg"

// RegisterMsgServer registers srv on the message service router
func RegisterMsgServer(s gogogrpc.Server, srv MsgServer) {
	s.RegisterService(&msgServiceDesc, srv)
}

func unaryMethod[Req any, Resp any](name string, call func(MsgServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MsgServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + msgServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MsgServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var msgServiceDesc = grpc.ServiceDesc{
	ServiceName: msgServiceName,
	HandlerType: (*MsgServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("SubmitBid", MsgServer.SubmitBid),
		unaryMethod("RetractBid", MsgServer.RetractBid),
		unaryMethod("ActivateBids", MsgServer.ActivateBids),
		unaryMethod("ExecuteBid", MsgServer.ExecuteBid),
		unaryMethod("ClaimLiquidations", MsgServer.ClaimLiquidations),
		unaryMethod("WhitelistCollateral", MsgServer.WhitelistCollateral),
		unaryMethod("UpdateCollateralInfo", MsgServer.UpdateCollateralInfo),
		unaryMethod("UpdateConfig", MsgServer.UpdateConfig),
	},
	Metadata: "lendq/liquidation/v1/tx.proto",
}
