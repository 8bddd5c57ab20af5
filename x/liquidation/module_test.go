package liquidation

import (
	"testing"
)

func TestGenesisValidation(t *testing.T) {
	basic := AppModuleBasic{}

	if err := basic.ValidateGenesis(nil, nil, basic.DefaultGenesis(nil)); err != nil {
		t.Errorf("default genesis must be valid: %v", err)
	}
	if err := basic.ValidateGenesis(nil, nil, []byte("{")); err == nil {
		t.Error("expected malformed genesis to fail")
	}
	if err := basic.ValidateGenesis(nil, nil, []byte(`{"next_bid_idx":1}`)); err == nil {
		t.Error("expected missing config to fail")
	}
}
