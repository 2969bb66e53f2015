package notify

import (
	"encoding/json"
	"testing"
	"time"

	"retailpro/models"
)

func TestHubRegisterNotifyUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}

	hub.register <- client

	ev := models.OrderEvent{
		OrderID:   "ORDtest",
		UserID:    "u1",
		OldStatus: "pending",
		NewStatus: "shipped",
		Timestamp: time.Now(),
	}
	hub.Notify("u1", ev)

	select {
	case got := <-client.Send:
		var out outboundPayload
		if err := json.Unmarshal(got, &out); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if out.OrderID != "ORDtest" || out.NewStatus != "shipped" {
			t.Fatalf("unexpected payload %+v", out)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for notification")
	}

	hub.unregister <- client
}

func TestHubDropThenUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// unbuffered Send: the broadcast cannot deliver, drops the client
	// and closes its channel
	client := &Client{
		Send:   make(chan []byte),
		UserID: "u1",
	}
	hub.register <- client
	hub.Notify("u1", models.OrderEvent{OrderID: "ORD1", UserID: "u1", NewStatus: "processing", Timestamp: time.Now()})

	// the read pump reports the disconnect afterwards; this must not
	// close Send a second time
	hub.unregister <- client

	// hub loop must still be alive and serving
	other := &Client{
		Send:   make(chan []byte, 1),
		UserID: "u1",
	}
	hub.register <- other
	hub.Notify("u1", models.OrderEvent{OrderID: "ORD2", UserID: "u1", NewStatus: "shipped", Timestamp: time.Now()})

	select {
	case <-other.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped delivering after a dropped client unregistered")
	}
}

func TestHubNotifyOtherUserNotDelivered(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- client

	hub.Notify("u2", models.OrderEvent{OrderID: "ORDx", UserID: "u2", NewStatus: "delivered", Timestamp: time.Now()})

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected delivery: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
