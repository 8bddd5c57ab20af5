package cli

import (
	"testing"

	"cosmossdk.io/math"
)

func TestParseLiquidationAmountRequest(t *testing.T) {
	req, err := ParseLiquidationAmountRequest("6000", "5000", "1000uatom, 50uosmo", "10,2.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !req.BorrowAmount.Equal(math.NewInt(6000)) || !req.BorrowLimit.Equal(math.NewInt(5000)) {
		t.Errorf("unexpected borrow %s/%s", req.BorrowAmount, req.BorrowLimit)
	}
	if len(req.Collaterals) != 2 || req.Collaterals[1].Denom != "uosmo" || !req.Collaterals[1].Amount.Equal(math.NewInt(50)) {
		t.Errorf("unexpected collaterals %+v", req.Collaterals)
	}
	if !req.Prices[1].Equal(math.LegacyNewDecWithPrec(25, 1)) {
		t.Errorf("expected price 2.5, got %s", req.Prices[1])
	}

	tests := []struct {
		name                               string
		amount, limit, collaterals, prices string
	}{
		{"bad amount", "x", "5000", "1000uatom", "10"},
		{"bad limit", "6000", "", "1000uatom", "10"},
		{"bad coin", "6000", "5000", "uatom", "10"},
		{"bad price", "6000", "5000", "1000uatom", "ten"},
		{"length mismatch", "6000", "5000", "1000uatom,5uosmo", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLiquidationAmountRequest(tt.amount, tt.limit, tt.collaterals, tt.prices); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseIdxs(t *testing.T) {
	idxs, err := parseIdxs([]string{"1", "7"})
	if err != nil || len(idxs) != 2 || idxs[1] != 7 {
		t.Errorf("unexpected %v %v", idxs, err)
	}
	if _, err := parseIdxs([]string{"-1"}); err == nil {
		t.Error("expected error for negative idx")
	}
}
