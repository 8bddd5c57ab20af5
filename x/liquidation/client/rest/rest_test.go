package rest

import (
	"net/http"
	"testing"

	"github.com/openalpha/lendq/x/liquidation/types"
)

func TestPattern(t *testing.T) {
	p := pattern("lendq", "liquidation", "v1", "bids", "{idx}")

	params, err := p.Match([]string{"lendq", "liquidation", "v1", "bids", "42"}, "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if params["idx"] != "42" {
		t.Errorf("expected idx 42, got %v", params)
	}
	if _, err := p.Match([]string{"lendq", "liquidation", "v1", "pools", "42"}, ""); err == nil {
		t.Error("expected literal mismatch")
	}

	static := pattern("lendq", "liquidation", "v1", "config")
	if _, err := static.Match([]string{"lendq", "liquidation", "v1", "config"}, ""); err != nil {
		t.Errorf("static match: %v", err)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrBidNotFound.Wrap("idx 3"), http.StatusNotFound},
		{types.ErrCollateralNotWhitelisted, http.StatusNotFound},
		{types.ErrInvalidRequest, http.StatusBadRequest},
		{types.ErrPoolInvariant, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
