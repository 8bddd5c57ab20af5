package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lendq"

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds the gateway metrics
type Collector struct {
	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec

	// Liquidation metrics
	LiquidationsTotal    *prometheus.CounterVec
	LiquidatedCollateral *prometheus.CounterVec
	StableRecovered      *prometheus.CounterVec
	LastLiquidationSeq   prometheus.Gauge
	PollErrorsTotal      prometheus.Counter

	// Bid pool metrics
	PoolDepth *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// GetCollector returns the collector registered on the default registry
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = NewCollector(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return collector
}

// NewCollector creates a collector and registers it on reg
func NewCollector(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Collector {
	c := &Collector{gatherer: gatherer}

	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	c.WSConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Messages pushed to WebSocket clients",
		},
		[]string{"channel"},
	)

	c.LiquidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidation",
			Name:      "executions_total",
			Help:      "Liquidations observed on chain",
		},
		[]string{"collateral"},
	)

	c.LiquidatedCollateral = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidation",
			Name:      "collateral_total",
			Help:      "Collateral sold to bid pools, in base units",
		},
		[]string{"collateral"},
	)

	c.StableRecovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidation",
			Name:      "stable_recovered_total",
			Help:      "Stable paid out of bid pools, in base units",
		},
		[]string{"collateral"},
	)

	c.LastLiquidationSeq = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "liquidation",
			Name:      "last_seq",
			Help:      "Sequence number of the latest observed liquidation",
		},
	)

	c.PollErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidation",
			Name:      "poll_errors_total",
			Help:      "Failed polls of the liquidation store",
		},
	)

	c.PoolDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "depth",
			Help:      "Stable available in a bid pool, in base units",
		},
		[]string{"collateral", "slot"},
	)

	reg.MustRegister(
		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.RateLimitHits,
		c.WSConnectionsActive,
		c.WSMessagesTotal,
		c.LiquidationsTotal,
		c.LiquidatedCollateral,
		c.StableRecovered,
		c.LastLiquidationSeq,
		c.PollErrorsTotal,
		c.PoolDepth,
	)

	return c
}

// ============ Recording Helpers ============

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a rejected request
func (c *Collector) RecordRateLimitHit(path string) {
	c.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.Add(float64(delta))
}

// RecordWSMessage records a message pushed to a channel
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// RecordLiquidation records an observed execution. Amounts are converted to
// float for export only.
func (c *Collector) RecordLiquidation(collateral string, seq uint64, collateralAmount, stableRecovered float64) {
	c.LiquidationsTotal.WithLabelValues(collateral).Inc()
	c.LiquidatedCollateral.WithLabelValues(collateral).Add(collateralAmount)
	c.StableRecovered.WithLabelValues(collateral).Add(stableRecovered)
	c.LastLiquidationSeq.Set(float64(seq))
}

// RecordPollError records a failed poll
func (c *Collector) RecordPollError() {
	c.PollErrorsTotal.Inc()
}

// RecordPoolDepth records the stable available in a pool
func (c *Collector) RecordPoolDepth(collateral, slot string, depth float64) {
	c.PoolDepth.WithLabelValues(collateral, slot).Set(depth)
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler for the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
