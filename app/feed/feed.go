// Package feed pushes order activity to the admin dashboard over WebSocket.
// The dashboard keeps its order table live without polling.
package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/event"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/sse"
	"github.com/daliaibrahim58/greenmart/pkg/ws"
)

// Orders is the hub admin dashboards attach to.
var Orders = ws.NewHub()

type message struct {
	Event   string    `json:"event"`
	OrderID uint      `json:"orderId"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	Total   float64   `json:"total,omitempty"`
	At      time.Time `json:"at"`
}

// Start runs the hub and subscribes it to order events. Call once at boot.
func Start() {
	go Orders.Run()

	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		publish(message{
			Event:   services.EventOrderCreated,
			OrderID: order.ID,
			To:      string(order.Status),
			Total:   order.Total,
			At:      time.Now().UTC(),
		})
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		change, ok := payload.(*services.StatusChange)
		if !ok {
			return
		}
		publish(message{
			Event:   services.EventOrderStatusChanged,
			OrderID: change.OrderID,
			From:    string(change.From),
			To:      string(change.To),
			At:      time.Now().UTC(),
		})
	})
}

func publish(m message) {
	data, err := json.Marshal(m)
	if err != nil {
		logger.Error("feed: encode message", "error", err)
		return
	}
	select {
	case Orders.Broadcast <- data:
	default:
		logger.Warn("feed: broadcast buffer full, dropping", "event", m.Event)
	}

	subsMu.Lock()
	for ch := range subs {
		select {
		case ch <- data:
		default: // slow consumer, drop rather than stall the feed
		}
	}
	subsMu.Unlock()
}

var (
	subsMu sync.Mutex
	subs   = map[chan []byte]struct{}{}
)

func subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 16)
	subsMu.Lock()
	subs[ch] = struct{}{}
	subsMu.Unlock()

	return ch, func() {
		subsMu.Lock()
		delete(subs, ch)
		subsMu.Unlock()
	}
}

// Stream serves the order feed over Server-Sent Events for dashboards that
// cannot hold a WebSocket open, typically behind strict proxies.
func Stream(c *ctx.Context) {
	stream := sse.New(c.W, c.R)
	if stream == nil {
		return
	}

	ch, cancel := subscribe()
	defer cancel()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.R.Context().Done():
			return
		case <-heartbeat.C:
			stream.Comment("keepalive")
		case data := <-ch:
			stream.SendRaw(string(data))
		}
		if stream.IsClosed() {
			return
		}
	}
}
