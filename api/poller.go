package api

import (
	"context"
	"strconv"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/openalpha/lendq/api/websocket"
	"github.com/openalpha/lendq/metrics"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// Poller follows the liquidation sequence on chain and fans new records out
// to the feed, the websocket hub and the metrics
type Poller struct {
	reader   Reader
	feed     *RecentFeed
	hub      *websocket.Hub
	metrics  *metrics.Collector
	interval time.Duration
	logger   log.Logger

	next uint64
}

// NewPoller creates a poller. hub and collector may be nil.
func NewPoller(reader Reader, feed *RecentFeed, hub *websocket.Hub, collector *metrics.Collector, interval time.Duration, logger log.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		reader:   reader,
		feed:     feed,
		hub:      hub,
		metrics:  collector,
		interval: interval,
		logger:   logger.With("module", "poller"),
		next:     1,
	}
}

// Backfill loads the existing history into the feed without broadcasting
func (p *Poller) Backfill() error {
	records, err := p.reader.LiquidationRecords()
	if err != nil {
		return err
	}
	for _, record := range records {
		p.feed.Add(record)
		if record.Seq >= p.next {
			p.next = record.Seq + 1
		}
	}
	p.logger.Info("backfilled liquidation feed", "records", len(records), "next_seq", p.next)
	return nil
}

// Poll reads every record past the last seen sequence and returns how many
// were found
func (p *Poller) Poll() (int, error) {
	touched := make(map[string]bool)
	found := 0
	for {
		record, ok, err := p.reader.LiquidationRecord(p.next)
		if err != nil {
			return found, err
		}
		if !ok {
			break
		}
		p.publish(*record)
		touched[record.CollateralToken] = true
		p.next++
		found++
	}

	for collateral := range touched {
		if err := p.refreshDepth(collateral); err != nil {
			p.logger.Error("depth refresh failed", "collateral", collateral, "error", err)
		}
	}
	return found, nil
}

func (p *Poller) publish(record types.LiquidationRecord) {
	p.feed.Add(record)
	if p.hub != nil {
		p.hub.BroadcastLiquidation(record.CollateralToken, record)
	}
	if p.metrics != nil {
		p.metrics.RecordLiquidation(record.CollateralToken, record.Seq, intToFloat(record.CollateralAmount), intToFloat(record.StableRecovered))
	}
	p.logger.Info("liquidation observed",
		"seq", record.Seq,
		"collateral", record.CollateralToken,
		"amount", record.CollateralAmount.String(),
		"stable_recovered", record.StableRecovered.String(),
	)
}

func (p *Poller) refreshDepth(collateral string) error {
	pools, err := p.reader.BidPools(collateral)
	if err != nil {
		return err
	}
	book := NewDepthBook(collateral, pools)
	if p.metrics != nil {
		for _, pool := range pools {
			p.metrics.RecordPoolDepth(collateral, strconv.FormatUint(uint64(pool.Slot), 10), intToFloat(pool.TotalBidAmount))
		}
	}
	if p.hub != nil {
		p.hub.BroadcastDepth(collateral, book.Levels(math.LegacyDec{}))
	}
	return nil
}

// Run polls until ctx is done
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Poll(); err != nil {
				if p.metrics != nil {
					p.metrics.RecordPollError()
				}
				p.logger.Error("poll failed", "next_seq", p.next, "error", err)
			}
		}
	}
}

func intToFloat(v math.Int) float64 {
	if v.IsNil() {
		return 0
	}
	f, _ := v.ToLegacyDec().Float64()
	return f
}
