package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/models"
)

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.register <- c1
	hub.register <- c2

	event := models.ModerationEvent{
		Type:        "approved",
		ContentType: "script",
		ContentID:   uuid.New(),
		Title:       "ESX Banking",
		ActorID:     uuid.New(),
		At:          time.Now().UTC(),
	}
	if err := hub.Broadcast(event); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got models.ModerationEvent
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("failed to decode event: %v", err)
			}
			if got.Type != "approved" || got.ContentID != event.ContentID {
				t.Errorf("unexpected event %+v", got)
			}
		case <-time.After(time.Second):
			t.Fatal("expected client to receive the event")
		}
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("expected send channel to be closed")
	}
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	// Unbuffered send channel with no reader simulates a stuck connection
	c := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- c

	event := models.ModerationEvent{Type: "pending", ContentType: "ad", ContentID: uuid.New()}
	if err := hub.Broadcast(event); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected slow consumer channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("expected slow consumer to be dropped")
	}
}
