package keeper

import (
	"errors"
	"math"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lendq/x/oracle/types"
)

var (
	feederAddr = sdk.AccAddress([]byte("feeder______________")).String()
	otherAddr  = sdk.AccAddress([]byte("other_______________")).String()
	testTime   = time.Unix(1_700_000_000, 0)
)

func setupKeeper(t *testing.T) (*Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: testTime}, false, log.NewNopLogger())
	k := NewKeeper(storeKey, log.NewNopLogger())
	k.InitGenesis(ctx, types.GenesisState{
		Params: types.Params{Feeders: []string{feederAddr}, BaseDenom: "uusd"},
	})
	return k, ctx
}

func TestFeedAndQueryPrice(t *testing.T) {
	k, ctx := setupKeeper(t)

	err := k.FeedPrices(ctx, feederAddr, map[string]sdkmath.LegacyDec{
		"uatom": sdkmath.LegacyNewDec(10),
		"uosmo": sdkmath.LegacyNewDecWithPrec(5, 1),
	})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}

	resp, err := k.QueryPrice(ctx, feederAddr, "uatom", "uusd")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !resp.Rate.Equal(sdkmath.LegacyNewDec(10)) {
		t.Errorf("expected rate 10, got %s", resp.Rate)
	}
	if resp.LastUpdatedBase != testTime.Unix() || resp.LastUpdatedQuote != math.MaxInt64 {
		t.Errorf("unexpected timestamps %d/%d", resp.LastUpdatedBase, resp.LastUpdatedQuote)
	}

	cross, err := k.QueryPrice(ctx, feederAddr, "uatom", "uosmo")
	if err != nil {
		t.Fatalf("cross query: %v", err)
	}
	if !cross.Rate.Equal(sdkmath.LegacyNewDec(20)) {
		t.Errorf("expected cross rate 20, got %s", cross.Rate)
	}

	if got := len(ctx.EventManager().Events()); got != 2 {
		t.Errorf("expected 2 feed events, got %d", got)
	}
}

func TestFeedPricesRejects(t *testing.T) {
	k, ctx := setupKeeper(t)

	tests := []struct {
		name   string
		feeder string
		prices map[string]sdkmath.LegacyDec
		want   error
	}{
		{"unregistered feeder", otherAddr, map[string]sdkmath.LegacyDec{"uatom": sdkmath.OneInt().ToLegacyDec()}, types.ErrUnauthorizedFeeder},
		{"base denom", feederAddr, map[string]sdkmath.LegacyDec{"uusd": sdkmath.LegacyOneDec()}, types.ErrInvalidDenom},
		{"non positive", feederAddr, map[string]sdkmath.LegacyDec{"uatom": sdkmath.LegacyZeroDec()}, types.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := k.FeedPrices(ctx, tt.feeder, tt.prices); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if prices := k.GetAllPrices(ctx); len(prices) != 0 {
		t.Errorf("rejected feeds must not store prices, got %+v", prices)
	}
}

func TestQueryPriceNotFound(t *testing.T) {
	k, ctx := setupKeeper(t)

	if _, err := k.QueryPrice(ctx, feederAddr, "uatom", "uusd"); !errors.Is(err, types.ErrPriceNotFound) {
		t.Errorf("expected price not found, got %v", err)
	}
	// prices are per feeder
	_ = k.FeedPrices(ctx, feederAddr, map[string]sdkmath.LegacyDec{"uatom": sdkmath.LegacyNewDec(3)})
	if _, err := k.QueryPrice(ctx, otherAddr, "uatom", "uusd"); !errors.Is(err, types.ErrPriceNotFound) {
		t.Errorf("expected price not found for other feeder, got %v", err)
	}
}

func TestMsgServerAndGenesis(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := NewMsgServerImpl(k)

	resp, err := srv.FeedPrice(ctx, &types.MsgFeedPrice{
		Feeder: feederAddr,
		Prices: []types.PriceInput{{Denom: "uatom", Price: "12.5"}},
	})
	if err != nil {
		t.Fatalf("feed price: %v", err)
	}
	if resp.Updated != 1 {
		t.Errorf("expected 1 update, got %d", resp.Updated)
	}

	exported := k.ExportGenesis(ctx)
	if err := exported.Validate(); err != nil {
		t.Fatalf("exported genesis invalid: %v", err)
	}
	if len(exported.Prices) != 1 || !exported.Prices[0].Price.Equal(sdkmath.LegacyNewDecWithPrec(125, 1)) {
		t.Errorf("unexpected export %+v", exported)
	}
}
