package sse

import (
	"testing"

	"github.com/geniehq/genie-backend/internal/platform/logger"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewHub(log)
}

func TestHubBroadcastReachesOnlyOwner(t *testing.T) {
	hub := newHub(t)
	mine := hub.Register("u1")
	theirs := hub.Register("u2")
	defer hub.Unregister(mine)
	defer hub.Unregister(theirs)

	hub.Broadcast(Message{UserID: "u1", Event: "title_generated", Data: "x"})

	select {
	case msg := <-mine.Outbound:
		if msg.Event != "title_generated" {
			t.Errorf("event = %q", msg.Event)
		}
	default:
		t.Fatal("owner client received nothing")
	}
	select {
	case <-theirs.Outbound:
		t.Fatal("message leaked to another user")
	default:
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := newHub(t)
	client := hub.Register("u1")
	hub.Unregister(client)

	hub.Broadcast(Message{UserID: "u1", Event: "x"})
	select {
	case <-client.Outbound:
		t.Fatal("unregistered client must not receive")
	default:
	}
}
