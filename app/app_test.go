package app

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	liquidationtypes "github.com/openalpha/lendq/x/liquidation/types"
	oracletypes "github.com/openalpha/lendq/x/oracle/types"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return NewApp(log.NewNopLogger(), dbm.NewMemDB(), nil, true, nil)
}

func TestBlockedModuleAccountAddrs(t *testing.T) {
	blocked := BlockedModuleAccountAddrs(maccPerms)
	if blocked[authtypes.NewModuleAddress(liquidationtypes.ModuleName).String()] {
		t.Error("liquidation module account must be able to receive funds")
	}
	if !blocked[authtypes.NewModuleAddress(authtypes.FeeCollectorName).String()] {
		t.Error("fee collector should be blocked")
	}
}

func TestStoreKeysMounted(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{oracletypes.StoreKey, liquidationtypes.StoreKey, authtypes.StoreKey} {
		if app.GetKey(name) == nil {
			t.Errorf("store key %s not mounted", name)
		}
	}
}

func TestOracleAdapterFeedsLiquidation(t *testing.T) {
	app := newTestApp(t)
	ctx := app.NewContextLegacy(false, cmtproto.Header{Height: 1})

	feeder := authtypes.NewModuleAddress("feeder").String()
	params := oracletypes.DefaultParams()
	params.Feeders = []string{feeder}
	app.OracleKeeper.SetParams(ctx, params)
	if err := app.OracleKeeper.FeedPrices(ctx, feeder, map[string]math.LegacyDec{
		"uatom": math.LegacyNewDec(12),
	}); err != nil {
		t.Fatalf("feed: %v", err)
	}

	adapter := newLiquidationOracleAdapter(app.OracleKeeper)
	resp, err := adapter.QueryPrice(ctx, feeder, "uatom", params.BaseDenom)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !resp.Rate.Equal(math.LegacyNewDec(12)) {
		t.Errorf("rate = %s, want 12", resp.Rate)
	}

	if _, err := newLiquidationOracleAdapter(nil).QueryPrice(ctx, feeder, "uatom", "uusd"); err == nil {
		t.Error("expected error without oracle keeper")
	}
}

func TestInitChainerLoadsModuleGenesis(t *testing.T) {
	app := newTestApp(t)
	ctx := app.NewContextLegacy(false, cmtproto.Header{Height: 1})

	liq := liquidationtypes.DefaultGenesis()
	liqBz, err := json.Marshal(liq)
	if err != nil {
		t.Fatal(err)
	}
	state := map[string]json.RawMessage{liquidationtypes.ModuleName: liqBz}
	stateBz, _ := json.Marshal(state)

	if _, err := app.InitChainer(ctx, &abci.RequestInitChain{AppStateBytes: stateBz}); err != nil {
		t.Fatalf("init chainer: %v", err)
	}
	if _, err := app.LiquidationKeeper.GetConfig(ctx); err != nil {
		t.Errorf("config not stored: %v", err)
	}
	if got := app.LiquidationKeeper.GetNextBidIdx(ctx); got != 1 {
		t.Errorf("next bid idx = %d, want 1", got)
	}
	if got := app.OracleKeeper.GetParams(ctx); got.BaseDenom != oracletypes.DefaultParams().BaseDenom {
		t.Errorf("oracle params not defaulted: %+v", got)
	}
}

func TestInitChainerRejectsInvalidGenesis(t *testing.T) {
	app := newTestApp(t)
	ctx := app.NewContextLegacy(false, cmtproto.Header{Height: 1})

	state := map[string]json.RawMessage{liquidationtypes.ModuleName: json.RawMessage(`{"config":{"owner":""}}`)}
	stateBz, _ := json.Marshal(state)
	if _, err := app.InitChainer(ctx, &abci.RequestInitChain{AppStateBytes: stateBz}); err == nil {
		t.Error("expected invalid liquidation genesis to fail")
	}
}

func TestMakeEncodingConfigResolvesModuleMsgs(t *testing.T) {
	cfg := MakeEncodingConfig()

	msgs := []sdk.Msg{
		&liquidationtypes.MsgSubmitBid{},
		&liquidationtypes.MsgExecuteBid{},
		&liquidationtypes.MsgWhitelistCollateral{},
		&oracletypes.MsgFeedPrice{},
	}
	for _, msg := range msgs {
		url := sdk.MsgTypeURL(msg)
		if _, err := cfg.InterfaceRegistry.Resolve(url); err != nil {
			t.Errorf("resolve %s: %v", url, err)
		}
	}

	addr := authtypes.NewModuleAddress(liquidationtypes.ModuleName)
	want := addr.String()
	got, err := cfg.AddressCodec.BytesToString(addr)
	if err != nil {
		t.Fatalf("encode address: %v", err)
	}
	if got != want {
		t.Errorf("address = %s, want %s", got, want)
	}
}
