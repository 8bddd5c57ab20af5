package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	testBidder  = sdk.AccAddress([]byte("bidder______________")).String()
	testOwner   = sdk.AccAddress([]byte("owner_______________")).String()
	testCustody = sdk.AccAddress([]byte("custody_____________")).String()
)

// TestMsgSubmitBidValidateBasic tests stateless bid checks
func TestMsgSubmitBidValidateBasic(t *testing.T) {
	tests := []struct {
		name string
		msg  MsgSubmitBid
		want error
	}{
		{"valid", MsgSubmitBid{Bidder: testBidder, CollateralToken: "uatom", PremiumSlot: 3, Amount: "100uusd"}, nil},
		{"bad bidder", MsgSubmitBid{Bidder: "x", CollateralToken: "uatom", Amount: "100uusd"}, ErrInvalidAddress},
		{"zero amount", MsgSubmitBid{Bidder: testBidder, CollateralToken: "uatom", Amount: "0uusd"}, ErrInvalidAmount},
		{"no denom", MsgSubmitBid{Bidder: testBidder, CollateralToken: "uatom", Amount: "100"}, ErrInvalidAmount},
		{"slot above cap", MsgSubmitBid{Bidder: testBidder, CollateralToken: "uatom", PremiumSlot: 30, Amount: "1uusd"}, ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateBasic()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestMsgUpdateConfigApply tests partial config updates
func TestMsgUpdateConfigApply(t *testing.T) {
	waiting := uint64(30)
	msg := MsgUpdateConfig{Owner: testOwner, NewOwner: testBidder, BidFee: "0.02", WaitingPeriod: &waiting}

	cfg, err := msg.Apply(DefaultConfig())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Owner != testBidder {
		t.Errorf("expected owner %s, got %s", testBidder, cfg.Owner)
	}
	if !cfg.BidFee.Equal(dec("0.02")) {
		t.Errorf("expected bid fee 0.02, got %s", cfg.BidFee)
	}
	if cfg.WaitingPeriod != 30 {
		t.Errorf("expected waiting period 30, got %d", cfg.WaitingPeriod)
	}
	if !cfg.SafeRatio.Equal(DefaultConfig().SafeRatio) {
		t.Errorf("unset fields must be unchanged, got safe ratio %s", cfg.SafeRatio)
	}

	bad := MsgUpdateConfig{Owner: testOwner, BidFee: "0.6", LiquidatorFee: "0.5"}
	if err := bad.ValidateBasic(); !errors.Is(err, ErrInvalidFees) {
		t.Errorf("expected invalid fees, got %v", err)
	}
}

// TestMsgWhitelistCollateralInfo tests registry entry construction
func TestMsgWhitelistCollateralInfo(t *testing.T) {
	msg := MsgWhitelistCollateral{
		Owner: testOwner, CollateralToken: "uatom", BidThreshold: "1000",
		MaxSlot: 30, PremiumRatePerSlot: "0.01",
	}
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected missing custody rejected, got %v", err)
	}

	msg.Custody = testCustody
	msg.PremiumRatePerSlot = "0.04"
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidPremiumRate) {
		t.Errorf("expected invalid premium rate, got %v", err)
	}

	msg.PremiumRatePerSlot = "0.01"
	info, err := msg.CollateralInfo()
	if err != nil {
		t.Fatalf("collateral info: %v", err)
	}
	if info.MaxSlot != 30 || !info.BidThreshold.Equal(math.NewInt(1000)) || info.Custody != testCustody {
		t.Errorf("unexpected info %+v", info)
	}
}
