package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"github.com/google/uuid"

	"github.com/openalpha/lendq/metrics"
)

const (
	// ChannelLiquidations streams every execution
	ChannelLiquidations = "liquidations"
	// liquidations:<denom> streams the executions of one collateral
	liquidationsPrefix = ChannelLiquidations + ":"
	// depth:<denom> streams the depth book of one collateral after it changes
	depthPrefix = "depth:"
)

// ReplayFunc returns the backlog a new subscriber of channel receives
type ReplayFunc func(channel string) []*WSMessage

// Hub maintains the set of active clients and fans out chain updates
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	register   chan *Client
	unregister chan *Client

	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	mu   sync.RWMutex
	done chan struct{}

	config  *HubConfig
	replay  ReplayFunc
	metrics *metrics.Collector
	logger  log.Logger
}

// HubConfig contains hub configuration
type HubConfig struct {
	MaxSubscriptions int
	MessageRateLimit int // messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		MaxSubscriptions: 50,
		MessageRateLimit: 20,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
}

// NewHub creates a new Hub. replay and collector may be nil.
func NewHub(config *HubConfig, replay ReplayFunc, collector *metrics.Collector, logger log.Logger) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		done:        make(chan struct{}),
		config:      config,
		replay:      replay,
		metrics:     collector,
		logger:      logger.With("module", "ws"),
	}
}

// Run processes hub events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.metrics != nil {
		h.metrics.RecordWSConnection(1)
	}
	h.logger.Debug("client connected", "id", client.id, "ip", client.ip)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for channel, clients := range h.channels {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
	close(client.send)
	if h.metrics != nil {
		h.metrics.RecordWSConnection(-1)
	}
	h.logger.Debug("client disconnected", "id", client.id)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if h.metrics != nil {
			h.metrics.RecordWSConnection(-1)
		}
	}
	h.clients = make(map[*Client]bool)
	h.channels = make(map[string]map[*Client]bool)
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[req.Client] {
		return
	}
	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true

	req.Client.Send(mustMarshal(&WSMessage{Type: "subscribed", Channel: req.Channel}))

	if h.replay == nil {
		return
	}
	for _, msg := range h.replay(req.Channel) {
		req.Client.Send(mustMarshal(msg))
	}
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}
	if h.clients[req.Client] {
		req.Client.Send(mustMarshal(&WSMessage{Type: "unsubscribed", Channel: req.Channel}))
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message *WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.channels[channel]
	if !ok {
		return
	}
	data := mustMarshal(message)
	for client := range clients {
		client.Send(data)
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage(channel)
	}
}

// BroadcastLiquidation pushes an execution record to the global channel and
// to the channel of its collateral
func (h *Hub) BroadcastLiquidation(collateral string, record any) {
	h.BroadcastToChannel(ChannelLiquidations, &WSMessage{Type: "liquidation", Channel: ChannelLiquidations, Data: record})
	channel := LiquidationChannel(collateral)
	h.BroadcastToChannel(channel, &WSMessage{Type: "liquidation", Channel: channel, Data: record})
}

// BroadcastDepth pushes the depth book of a collateral
func (h *Hub) BroadcastDepth(collateral string, depth any) {
	channel := DepthChannel(collateral)
	h.BroadcastToChannel(channel, &WSMessage{Type: "depth", Channel: channel, Data: depth})
}

// LiquidationChannel returns the channel of a collateral's executions
func LiquidationChannel(collateral string) string {
	return liquidationsPrefix + collateral
}

// DepthChannel returns the channel of a collateral's depth book
func DepthChannel(collateral string) string {
	return depthPrefix + collateral
}

// ParseChannel splits a channel into its kind and collateral. ok is false
// for unknown channels.
func ParseChannel(channel string) (kind, collateral string, ok bool) {
	switch {
	case channel == ChannelLiquidations:
		return ChannelLiquidations, "", true
	case strings.HasPrefix(channel, liquidationsPrefix) && len(channel) > len(liquidationsPrefix):
		return ChannelLiquidations, channel[len(liquidationsPrefix):], true
	case strings.HasPrefix(channel, depthPrefix) && len(channel) > len(depthPrefix):
		return "depth", channel[len(depthPrefix):], true
	}
	return "", "", false
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func mustMarshal(msg *WSMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		data, _ = json.Marshal(&WSMessage{Type: "error", Data: map[string]string{"message": err.Error()}})
	}
	return data
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("upgrade failed", "error", err)
		return
	}

	client := NewClient(h, conn, uuid.NewString(), getClientIPFromRequest(r))
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func getClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}

// deliver sends data to a client that is still registered
func (h *Hub) deliver(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[client] {
		client.Send(data)
	}
}
