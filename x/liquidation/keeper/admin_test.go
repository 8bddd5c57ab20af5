package keeper

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

func TestWhitelistCollateral(t *testing.T) {
	f := setupKeeper(t)
	osmo := types.NewCollateralInfo("uosmo", custodyAddr, sdkmath.NewInt(1000), 10, sdkmath.LegacyNewDecWithPrec(2, 2))

	if err := f.keeper.WhitelistCollateral(f.ctx, aliceAddr, osmo); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if err := f.keeper.WhitelistCollateral(f.ctx, ownerAddr, osmo); err != nil {
		t.Fatalf("whitelist: %v", err)
	}
	if err := f.keeper.WhitelistCollateral(f.ctx, ownerAddr, osmo); !errors.Is(err, types.ErrCollateralAlreadyWhitelisted) {
		t.Errorf("expected already whitelisted, got %v", err)
	}

	bad := types.NewCollateralInfo("uluna", custodyAddr, sdkmath.NewInt(1000), 10, sdkmath.LegacyNewDecWithPrec(1, 1))
	if err := f.keeper.WhitelistCollateral(f.ctx, ownerAddr, bad); !errors.Is(err, types.ErrInvalidPremiumRate) {
		t.Errorf("expected premium rate error, got %v", err)
	}

	infos := f.keeper.GetCollateralInfos(f.ctx, "", 0)
	if len(infos) != 2 || infos[0].CollateralToken != atom || infos[1].CollateralToken != "uosmo" {
		t.Errorf("unexpected registry %+v", infos)
	}
}

// TestUpdateCollateralInfoMaxSlot tests that pools above a lowered max slot
// still serve executions
func TestUpdateCollateralInfoMaxSlot(t *testing.T) {
	f := setupKeeper(t)
	f.submit(t, aliceAddr, 5, 100_000_000)

	if err := f.keeper.UpdateCollateralInfo(f.ctx, ownerAddr, atom, nil, 3); err != nil {
		t.Fatalf("update: %v", err)
	}
	info, _ := f.keeper.GetCollateralInfo(f.ctx, atom)
	if info.MaxSlot != 3 || !info.BidThreshold.Equal(sdkmath.NewInt(1_000_000_000_000)) {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := f.keeper.SubmitBid(f.ctx, aliceAddr, atom, 5, sdk.NewInt64Coin(stable, 1000)); !errors.Is(err, types.ErrInvalidSlot) {
		t.Errorf("expected invalid slot, got %v", err)
	}

	record := f.execute(t, 1_000_000)
	if len(record.Fills) != 1 || record.Fills[0].Slot != 5 {
		t.Errorf("expected fill from slot 5, got %+v", record.Fills)
	}

	if err := f.keeper.UpdateCollateralInfo(f.ctx, ownerAddr, atom, nil, 31); !errors.Is(err, types.ErrMaxSlotExceeded) {
		t.Errorf("expected max slot exceeded, got %v", err)
	}
	threshold := sdkmath.NewInt(5)
	if err := f.keeper.UpdateCollateralInfo(f.ctx, aliceAddr, atom, &threshold, 0); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestUpdateConfig(t *testing.T) {
	f := setupKeeper(t)
	cfg, _ := f.keeper.GetConfig(f.ctx)

	changed := cfg
	changed.StableDenom = "uusdc"
	if err := f.keeper.UpdateConfig(f.ctx, ownerAddr, changed); !errors.Is(err, types.ErrInvalidConfig) {
		t.Errorf("expected fixed stable denom, got %v", err)
	}

	changed = cfg
	changed.Owner = aliceAddr
	if err := f.keeper.UpdateConfig(f.ctx, bobAddr, changed); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if err := f.keeper.UpdateConfig(f.ctx, ownerAddr, changed); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if err := f.keeper.UpdateConfig(f.ctx, ownerAddr, changed); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("previous owner must lose access, got %v", err)
	}
}

func TestCollateralInfosPageByDenomLength(t *testing.T) {
	f := setupKeeper(t)
	ibc := "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"
	for _, denom := range []string{ibc, "uosmo", "ujuno"} {
		info := types.NewCollateralInfo(denom, custodyAddr, sdkmath.NewInt(1000), 10, sdkmath.LegacyNewDecWithPrec(2, 2))
		if err := f.keeper.WhitelistCollateral(f.ctx, ownerAddr, info); err != nil {
			t.Fatalf("whitelist %s: %v", denom, err)
		}
	}

	tests := []struct {
		name       string
		startAfter string
		limit      int
		want       []string
	}{
		{name: "all", want: []string{atom, "ujuno", "uosmo", ibc}},
		{name: "first page", limit: 2, want: []string{atom, "ujuno"}},
		{name: "after short denom", startAfter: "ujuno", limit: 2, want: []string{"uosmo", ibc}},
		{name: "after long denom", startAfter: ibc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infos := f.keeper.GetCollateralInfos(f.ctx, tt.startAfter, tt.limit)
			if len(infos) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %+v", len(infos), len(tt.want), infos)
			}
			for i, info := range infos {
				if info.CollateralToken != tt.want[i] {
					t.Errorf("entry %d = %s, want %s", i, info.CollateralToken, tt.want[i])
				}
			}
		})
	}
}
