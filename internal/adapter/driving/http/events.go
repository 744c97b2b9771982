package httphandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.EventPublisher = (*EventHub)(nil)

const (
	subscriberBuffer  = 8
	keepAliveInterval = 25 * time.Second
)

type sseEvent struct {
	name string
	data []byte
}

// EventHub fans events out to every connected Server-Sent Events client.
// Slow clients drop events rather than block publishers.
type EventHub struct {
	mu      sync.RWMutex
	clients map[chan sseEvent]struct{}
	logger  *slog.Logger
}

// NewEventHub creates an EventHub with no subscribers.
func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		clients: make(map[chan sseEvent]struct{}),
		logger:  logger,
	}
}

// Publish sends event to every subscriber. data is JSON encoded.
func (h *EventHub) Publish(event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- sseEvent{name: event, data: payload}:
		default:
			h.logger.Warn("event dropped for slow subscriber", "event", event)
		}
	}
}

// Subscribers returns the number of connected clients.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *EventHub) subscribe() chan sseEvent {
	ch := make(chan sseEvent, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) unsubscribe(ch chan sseEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// ServeHTTP streams events until the client disconnects.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.Error("streaming not supported", "error", err)
		return
	}

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
