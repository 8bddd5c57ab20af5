package types

import (
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var testFeeder = sdk.AccAddress([]byte("feeder______________")).String()

func TestMsgFeedPriceValidateBasic(t *testing.T) {
	tests := []struct {
		name string
		msg  MsgFeedPrice
		want error
	}{
		{"valid", MsgFeedPrice{Feeder: testFeeder, Prices: []PriceInput{{"uatom", "10.5"}, {"uosmo", "0.3"}}}, nil},
		{"bad feeder", MsgFeedPrice{Feeder: "x", Prices: []PriceInput{{"uatom", "1"}}}, ErrUnauthorizedFeeder},
		{"no prices", MsgFeedPrice{Feeder: testFeeder}, ErrInvalidPrice},
		{"zero price", MsgFeedPrice{Feeder: testFeeder, Prices: []PriceInput{{"uatom", "0"}}}, ErrInvalidPrice},
		{"bad price", MsgFeedPrice{Feeder: testFeeder, Prices: []PriceInput{{"uatom", "ten"}}}, ErrInvalidPrice},
		{"bad denom", MsgFeedPrice{Feeder: testFeeder, Prices: []PriceInput{{"1", "1"}}}, ErrInvalidDenom},
		{"duplicate", MsgFeedPrice{Feeder: testFeeder, Prices: []PriceInput{{"uatom", "1"}, {"uatom", "2"}}}, ErrInvalidPrice},
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

func TestGenesisValidate(t *testing.T) {
	gs := DefaultGenesis()
	if err := gs.Validate(); err != nil {
		t.Fatalf("default genesis: %v", err)
	}

	gs.Params.Feeders = []string{testFeeder}
	gs.Prices = []PriceInfo{{Feeder: testFeeder, Denom: "uatom", Price: BasePrice(testFeeder, "uatom").Price}}
	if err := gs.Validate(); err != nil {
		t.Errorf("valid genesis: %v", err)
	}

	gs.Params.Feeders = []string{testFeeder, testFeeder}
	if err := gs.Validate(); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected duplicate feeder error, got %v", err)
	}

	gs.Params.Feeders = []string{}
	if err := gs.Validate(); !errors.Is(err, ErrUnauthorizedFeeder) {
		t.Errorf("expected unregistered feeder error, got %v", err)
	}
}
