package mq

import (
	"context"
	"encoding/json"
	"log"

	"camellia/rdx"
)

// Event is an operational notification emitted after state transitions
// (order committed, stock decremented, reservation consumed). Consumers
// subscribe for dashboards and reconciliation tooling; delivery is
// best-effort and never affects the request that emitted it.
type Event struct {
	Name      string `json:"name"`
	OrderID   string `json:"orderId,omitempty"`
	ProductID string `json:"productId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

const channel = "checkout-events"

// Emit publishes an event to Redis Pub/Sub.
func Emit(ctx context.Context, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s: %v", evt.Name, err)
	}
}

// StartEventLogger subscribes to the checkout event channel and logs every
// event. It exists so a single-instance deployment still has a durable
// trace for reconciliation after best-effort cleanup failures.
func StartEventLogger() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[EventLogger] listening for checkout events...")

	for msg := range ch {
		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			log.Printf("[EventLogger] failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventLogger] %s order=%s product=%s qty=%d", evt.Name, evt.OrderID, evt.ProductID, evt.Quantity)
	}
}
