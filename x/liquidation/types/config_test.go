package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestConfigValidate tests config bounds
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"default", func(*Config) {}, nil},
		{"zero safe ratio", func(c *Config) { c.SafeRatio = math.LegacyZeroDec() }, ErrInvalidConfig},
		{"safe ratio above one", func(c *Config) { c.SafeRatio = dec("1.01") }, ErrInvalidConfig},
		{"fees sum to one", func(c *Config) { c.BidFee = dec("0.5"); c.LiquidatorFee = dec("0.5") }, ErrInvalidFees},
		{"negative bid fee", func(c *Config) { c.BidFee = dec("-0.1") }, ErrInvalidFees},
		{"bad owner", func(c *Config) { c.Owner = "nobody" }, ErrInvalidConfig},
		{"bad stable denom", func(c *Config) { c.StableDenom = "1" }, ErrInvalidConfig},
		{"zero price timeframe", func(c *Config) { c.PriceTimeframe = 0 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
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

// TestValidateSlotPremium tests that no slot can reach a 100% discount
func TestValidateSlotPremium(t *testing.T) {
	tests := []struct {
		name    string
		maxSlot uint32
		rate    string
		want    error
	}{
		{"thirty slots at 3.3%", 30, "0.033", nil},
		{"thirty slots at 3.4%", 30, "0.034", ErrInvalidPremiumRate},
		{"exactly 100%", 10, "0.1", ErrInvalidPremiumRate},
		{"too many slots", 31, "0.01", ErrMaxSlotExceeded},
		{"no slots", 0, "0.01", ErrMaxSlotExceeded},
		{"negative rate", 5, "-0.01", ErrInvalidPremiumRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlotPremium(tt.maxSlot, dec(tt.rate))
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

// TestCollateralPremiumRate tests the slot premium schedule
func TestCollateralPremiumRate(t *testing.T) {
	info := NewCollateralInfo("uatom", testCustody, math.ZeroInt(), 5, dec("0.02"))

	if !info.PremiumRate(0).IsZero() {
		t.Errorf("slot 0 must carry no premium, got %s", info.PremiumRate(0))
	}
	if !info.PremiumRate(3).Equal(dec("0.06")) {
		t.Errorf("expected 0.06, got %s", info.PremiumRate(3))
	}
	if !info.MaxPremiumRate().Equal(dec("0.08")) {
		t.Errorf("expected max premium 0.08, got %s", info.MaxPremiumRate())
	}
	if err := info.ValidateSlot(5); !ErrInvalidSlot.Is(err) {
		t.Errorf("expected invalid slot, got %v", err)
	}
}
