package mq

import (
	"context"
	"encoding/json"
	"log"

	"retailpro/models"
	"retailpro/rdx"
)

const orderEventsChannel = "order-events"

// Emitter publishes order lifecycle events onto the Redis bus.
type Emitter struct {
	Cache *rdx.Cache
}

func NewEmitter(cache *rdx.Cache) *Emitter {
	return &Emitter{Cache: cache}
}

// Publish fans an order event out to subscribers. A publish failure is
// logged but never fails the operation that produced the event.
func (e *Emitter) Publish(ctx context.Context, ev models.OrderEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshalling order event: %v", err)
		return
	}
	if err := e.Cache.Conn.Publish(ctx, orderEventsChannel, payload).Err(); err != nil {
		log.Printf("Error publishing order event: %v", err)
		return
	}
	log.Printf("Emitted order event: %s %s -> %s", ev.OrderID, ev.OldStatus, ev.NewStatus)
}

// Subscriber receives decoded order events from the bus.
type Subscriber interface {
	Notify(userID string, ev models.OrderEvent)
}

// StartOrderEventWorker consumes the order event channel until ctx is
// cancelled, forwarding each event to the subscriber.
func StartOrderEventWorker(ctx context.Context, cache *rdx.Cache, sub Subscriber) {
	pubsub := cache.Conn.Subscribe(ctx, orderEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error decoding order event: %v", err)
				continue
			}
			sub.Notify(ev.UserID, ev)
		}
	}
}
