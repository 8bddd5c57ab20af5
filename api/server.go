package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/openalpha/lendq/api/middleware"
	"github.com/openalpha/lendq/api/websocket"
	"github.com/openalpha/lendq/metrics"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// Reader is the read side of the liquidation store
type Reader interface {
	Config() (*types.Config, error)
	CollateralInfo(collateral string) (*types.CollateralInfo, error)
	CollateralInfos() ([]types.CollateralInfo, error)
	BidPools(collateral string) ([]types.BidPool, error)
	BidsByUser(collateral, bidder string) ([]types.Bid, error)
	Bid(idx uint64) (*types.Bid, error)
	LiquidationRecord(seq uint64) (*types.LiquidationRecord, bool, error)
	LiquidationRecords() ([]types.LiquidationRecord, error)
}

// Server is the read-only HTTP and WebSocket gateway
type Server struct {
	httpServer *http.Server
	config     *Config

	reader      Reader
	feed        *RecentFeed
	hub         *websocket.Hub
	poller      *Poller
	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Collector
	logger      log.Logger
}

// Config contains gateway configuration
type Config struct {
	Node         string
	Listen       string
	PollInterval time.Duration
	QueryTimeout time.Duration
	RateLimit    float64 // requests per second per IP, 0 disables
	Burst        int
	Window       int // recent liquidations kept in memory
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Node:         "tcp://localhost:26657",
		Listen:       "0.0.0.0:8080",
		PollInterval: 2 * time.Second,
		QueryTimeout: 5 * time.Second,
		RateLimit:    20,
		Burst:        40,
		Window:       500,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer creates a gateway over reader
func NewServer(config *Config, reader Reader, collector *metrics.Collector, logger log.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	logger = logger.With("module", "gateway")

	s := &Server{
		config:  config,
		reader:  reader,
		feed:    NewRecentFeed(config.Window),
		metrics: collector,
		logger:  logger,
	}
	s.hub = websocket.NewHub(nil, s.replay, collector, logger)
	s.poller = NewPoller(reader, s.feed, s.hub, collector, config.PollInterval, logger)
	if config.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(&middleware.RateLimitConfig{
			RequestsPerSecond: config.RateLimit,
			Burst:             config.Burst,
			CleanupInterval:   time.Minute,
			VisitorTTL:        5 * time.Minute,
		}, collector)
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /health", s.handleHealth)
	s.handle(mux, "GET /v1/config", s.handleConfig)
	s.handle(mux, "GET /v1/collaterals", s.handleCollaterals)
	s.handle(mux, "GET /v1/collaterals/{denom}", s.handleCollateral)
	s.handle(mux, "GET /v1/collaterals/{denom}/pools", s.handlePools)
	s.handle(mux, "GET /v1/collaterals/{denom}/depth", s.handleDepth)
	s.handle(mux, "GET /v1/collaterals/{denom}/bids/{bidder}", s.handleBidsByUser)
	s.handle(mux, "GET /v1/bids/{idx}", s.handleBid)
	s.handle(mux, "GET /v1/liquidations", s.handleLiquidations)
	s.handle(mux, "GET /ws", s.hub.ServeWS)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// CORS -> RateLimit -> Handler
	var handler http.Handler = mux
	if s.rateLimiter != nil {
		handler = middleware.RateLimitMiddleware(s.rateLimiter)(handler)
	}
	return middleware.CORS(handler)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.metrics == nil {
		mux.HandleFunc(pattern, h)
		return
	}
	route := func(*http.Request) string { return pattern }
	mux.Handle(pattern, middleware.Metrics(s.metrics, route)(h))
}

// Start backfills the feed, then serves until ctx is done or the listener
// fails. Cancelling ctx shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if err := s.poller.Backfill(); err != nil {
		s.logger.Error("backfill failed, starting from an empty feed", "error", err)
	}

	go s.hub.Run(ctx)
	go s.poller.Run(ctx)

	s.httpServer = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("gateway shutdown failed", "error", err)
		}
	}()

	s.logger.Info("gateway listening",
		"addr", s.config.Listen,
		"node", s.config.Node,
		"rate_limit", s.config.RateLimit,
		"window", s.config.Window,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop releases the rate limiter and shuts the listener down if it is still
// serving
func (s *Server) Stop(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// replay serves the backlog of a websocket channel from the feed
func (s *Server) replay(channel string) []*websocket.WSMessage {
	kind, collateral, ok := websocket.ParseChannel(channel)
	if !ok {
		return nil
	}
	if kind == "depth" {
		pools, err := s.reader.BidPools(collateral)
		if err != nil {
			return nil
		}
		return []*websocket.WSMessage{{
			Type:    "depth",
			Channel: channel,
			Data:    NewDepthBook(collateral, pools).Levels(math.LegacyDec{}),
		}}
	}

	records := s.feed.Since(0, collateral, 0)
	out := make([]*websocket.WSMessage, 0, len(records))
	for _, record := range records {
		out = append(out, &websocket.WSMessage{Type: "liquidation", Channel: channel, Data: record})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"last_seq":  s.feed.LastSeq(),
		"clients":   s.hub.GetClientCount(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	respond(w, s.reader.Config)
}

func (s *Server) handleCollaterals(w http.ResponseWriter, r *http.Request) {
	respond(w, s.reader.CollateralInfos)
}

func (s *Server) handleCollateral(w http.ResponseWriter, r *http.Request) {
	respond(w, func() (*types.CollateralInfo, error) {
		return s.reader.CollateralInfo(r.PathValue("denom"))
	})
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	respond(w, func() ([]types.BidPool, error) {
		return s.reader.BidPools(r.PathValue("denom"))
	})
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	denom := r.PathValue("denom")
	var price math.LegacyDec
	if raw := r.URL.Query().Get("price"); raw != "" {
		p, err := math.LegacyNewDecFromStr(raw)
		if err != nil || !p.IsPositive() {
			writeError(w, http.StatusBadRequest, "price must be a positive decimal")
			return
		}
		price = p
	}
	respond(w, func() (map[string]any, error) {
		pools, err := s.reader.BidPools(denom)
		if err != nil {
			return nil, err
		}
		book := NewDepthBook(denom, pools)
		return map[string]any{
			"collateral_token": denom,
			"total":            book.Total().String(),
			"levels":           book.Levels(price),
		}, nil
	})
}

func (s *Server) handleBidsByUser(w http.ResponseWriter, r *http.Request) {
	respond(w, func() ([]types.Bid, error) {
		return s.reader.BidsByUser(r.PathValue("denom"), r.PathValue("bidder"))
	})
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.ParseUint(r.PathValue("idx"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bid idx must be an unsigned integer")
		return
	}
	respond(w, func() (*types.Bid, error) {
		return s.reader.Bid(idx)
	})
}

// handleLiquidations serves recent executions from the in-memory window:
// newest first, or oldest first past ?after=
func (s *Server) handleLiquidations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}
	collateral := q.Get("collateral")

	var records []types.LiquidationRecord
	if raw := q.Get("after"); raw != "" {
		after, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "after must be an unsigned integer")
			return
		}
		records = s.feed.Since(after, collateral, limit)
	} else {
		records = s.feed.Latest(collateral, limit)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"liquidations": records,
		"last_seq":     s.feed.LastSeq(),
	})
}

// Helper functions

func respond[T any](w http.ResponseWriter, fetch func() (T, error)) {
	out, err := fetch()
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func statusOf(err error) int {
	switch {
	case types.ErrCollateralNotWhitelisted.Is(err),
		types.ErrBidNotFound.Is(err),
		types.ErrBidPoolNotFound.Is(err):
		return http.StatusNotFound
	case types.ErrInvalidRequest.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": message,
	})
}
