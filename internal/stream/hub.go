// Package stream broadcasts batch completion events to WebSocket clients.
// Long sweeps are observable live: each persisted batch produces one event.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/observability"
)

// BatchEvent is the JSON payload broadcast when a batch completes.
type BatchEvent struct {
	Type             string  `json:"type"`
	BatchID          string  `json:"batch_id"`
	StartingBankroll float64 `json:"starting_bankroll"`
	TrialCount       int     `json:"trial_count"`
	RuinCount        int     `json:"ruin_count"`
	SurvivorCount    int     `json:"survivor_count"`
	RuinProbability  float64 `json:"ruin_probability"`
	HistogramBins    int     `json:"histogram_bins"`
	NoData           bool    `json:"no_data"`
}

// Hub tracks connected WebSocket clients and broadcasts events to them.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client disconnects. Clients are read-only; inbound messages are drained
// and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends data to every connected client. Clients whose writes fail
// are dropped.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
			continue
		}
		observability.DefaultMetrics.StreamEventsSent.Inc()
	}
	observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SweepBatchCompleted broadcasts a batch completion event.
func (h *Hub) SweepBatchCompleted(agg *domain.BatchAggregate, hist *domain.Histogram) {
	event := BatchEvent{
		Type:             "batch_completed",
		BatchID:          agg.BatchID,
		StartingBankroll: agg.StartingBankroll,
		TrialCount:       agg.TrialCount,
		RuinCount:        agg.RuinCount,
		SurvivorCount:    agg.SurvivorCount,
		RuinProbability:  agg.RuinProbability,
		NoData:           hist == nil,
	}
	if hist != nil {
		event.HistogramBins = len(hist.Bins)
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[stream] marshal event: %v", err)
		return
	}
	h.Broadcast(data)
}
