package mq

import (
	"context"
	"encoding/json"
	"log"

	"vestire/rdx"
	"vestire/utils"
)

// Event is an order/user lifecycle message published for interested consumers.
type Event struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OrderID string `json:"order_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

const channel = "store-events"

// Emit publishes an event to the Redis channel. Failures are logged and
// swallowed: event delivery is best-effort and never blocks a request.
func Emit(ctx context.Context, ev Event) {
	if rdx.Conn == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = utils.GetUUID()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish event: %v", err)
	}
}

// StartEventLogger consumes the event channel and logs each event. It gives
// operators a single stream of order activity across processes.
func StartEventLogger() {
	if rdx.Conn == nil {
		return
	}
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[events] failed to parse event: %v", err)
			continue
		}
		log.Printf("[events] %s order=%s user=%s status=%s", ev.Name, ev.OrderID, ev.UserID, ev.Status)
	}
}
