package types

import (
	"context"
	"testing"

	"google.golang.org/grpc"
)

type recordingServer struct {
	desc *grpc.ServiceDesc
	impl any
}

func (s *recordingServer) RegisterService(sd *grpc.ServiceDesc, ss any) {
	s.desc, s.impl = sd, ss
}

type submitOnlyServer struct {
	MsgServer
	got *MsgSubmitBid
}

func (s *submitOnlyServer) SubmitBid(_ context.Context, msg *MsgSubmitBid) (*MsgSubmitBidResponse, error) {
	s.got = msg
	return &MsgSubmitBidResponse{BidIdx: 7}, nil
}

func TestRegisterMsgServer(t *testing.T) {
	rec := &recordingServer{}
	srv := &submitOnlyServer{}
	RegisterMsgServer(rec, srv)

	if rec.desc == nil || rec.desc.ServiceName != "lendq.liquidation.v1.Msg" {
		t.Fatalf("unexpected service %+v", rec.desc)
	}
	if len(rec.desc.Methods) != 8 {
		t.Errorf("expected 8 methods, got %d", len(rec.desc.Methods))
	}

	var submit grpc.MethodDesc
	for _, m := range rec.desc.Methods {
		if m.MethodName == "SubmitBid" {
			submit = m
		}
	}
	dec := func(v any) error {
		*v.(*MsgSubmitBid) = MsgSubmitBid{Bidder: "alice", PremiumSlot: 3}
		return nil
	}
	res, err := submit.Handler(rec.impl, context.Background(), dec, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.(*MsgSubmitBidResponse).BidIdx != 7 || srv.got.PremiumSlot != 3 {
		t.Errorf("unexpected dispatch %+v %+v", res, srv.got)
	}

	var intercepted string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		intercepted = info.FullMethod
		return handler(ctx, req)
	}
	if _, err := submit.Handler(rec.impl, context.Background(), dec, interceptor); err != nil {
		t.Fatalf("intercepted handler: %v", err)
	}
	if intercepted != "/lendq.liquidation.v1.Msg/SubmitBid" {
		t.Errorf("unexpected method %q", intercepted)
	}
}
