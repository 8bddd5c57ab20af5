package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/lendq/x/liquidation/client/cli"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// Opcodes of the gateway path pattern machine
const (
	opPush    = 1
	opLitPush = 2
	opConcatN = 4
	opCapture = 5
)

// pattern builds a GET path such as lendq/liquidation/v1/bids/{idx}
func pattern(segments ...string) runtime.Pattern {
	var (
		ops  []int
		pool []string
	)
	for _, seg := range segments {
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			pool = append(pool, seg[1:len(seg)-1])
			ops = append(ops, opPush, 0, opConcatN, 1, opCapture, len(pool)-1)
			continue
		}
		pool = append(pool, seg)
		ops = append(ops, opLitPush, len(pool)-1)
	}
	return runtime.MustPattern(runtime.NewPattern(1, ops, pool, ""))
}

// RegisterRoutes registers read-only liquidation routes on the API server's
// gateway mux
func RegisterRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
	base := []string{"lendq", "liquidation", "v1"}
	route := func(h func(r cli.StoreReader, params map[string]string) (any, error), segments ...string) {
		mux.Handle(http.MethodGet, pattern(append(append([]string{}, base...), segments...)...),
			func(w http.ResponseWriter, req *http.Request, params map[string]string) {
				ctx := clientCtx
				if height := req.URL.Query().Get("height"); height != "" {
					if h, err := strconv.ParseInt(height, 10, 64); err == nil {
						ctx = ctx.WithHeight(h)
					}
				}
				out, err := h(cli.NewStoreReader(ctx), params)
				writeJSON(w, out, err)
			})
	}

	route(func(r cli.StoreReader, _ map[string]string) (any, error) {
		return r.Config()
	}, "config")
	route(func(r cli.StoreReader, _ map[string]string) (any, error) {
		return r.CollateralInfos()
	}, "collaterals")
	route(func(r cli.StoreReader, p map[string]string) (any, error) {
		return r.CollateralInfo(p["denom"])
	}, "collaterals", "{denom}")
	route(func(r cli.StoreReader, p map[string]string) (any, error) {
		return r.BidPools(p["denom"])
	}, "collaterals", "{denom}", "pools")
	route(func(r cli.StoreReader, p map[string]string) (any, error) {
		return r.BidsByUser(p["denom"], p["bidder"])
	}, "collaterals", "{denom}", "bids", "{bidder}")
	route(func(r cli.StoreReader, p map[string]string) (any, error) {
		idx, err := strconv.ParseUint(p["idx"], 10, 64)
		if err != nil {
			return nil, types.ErrInvalidRequest.Wrapf("bid idx %q", p["idx"])
		}
		return r.Bid(idx)
	}, "bids", "{idx}")
	route(func(r cli.StoreReader, _ map[string]string) (any, error) {
		return r.LiquidationRecords()
	}, "liquidations")
}

func writeJSON(w http.ResponseWriter, out any, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(statusOf(err))
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrCollateralNotWhitelisted),
		errors.Is(err, types.ErrBidNotFound),
		errors.Is(err, types.ErrBidPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
