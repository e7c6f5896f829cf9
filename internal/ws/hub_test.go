package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPublishEncodesEnvelope(t *testing.T) {
	hub := NewHub()

	hub.Publish("po_confirmed", map[string]string{"doc_number": "QT202501001"})

	select {
	case msg := <-hub.Broadcast:
		var got struct {
			Type string            `json:"type"`
			Data map[string]string `json:"data"`
		}
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got.Type != "po_confirmed" || got.Data["doc_number"] != "QT202501001" {
			t.Errorf("unexpected event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not broadcast")
	}
}

func TestPublishSkipsUnencodable(t *testing.T) {
	hub := NewHub()

	hub.Publish("broken", make(chan int))

	select {
	case msg := <-hub.Broadcast:
		t.Fatalf("unexpected message %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishKeepsOrder(t *testing.T) {
	hub := NewHub()

	for _, typ := range []string{"first", "second", "third"} {
		hub.Publish(typ, nil)
	}

	for _, want := range []string{"first", "second", "third"} {
		select {
		case msg := <-hub.Broadcast:
			var got Event
			if err := json.Unmarshal(msg, &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if got.Type != want {
				t.Fatalf("expected %s, got %s", want, got.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s was not broadcast", want)
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()

	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.Publish("tick", i)
	}

	if n := len(hub.Broadcast); n != cap(hub.Broadcast) {
		t.Errorf("expected %d queued events, got %d", cap(hub.Broadcast), n)
	}
}

func TestClientCountEmpty(t *testing.T) {
	if n := NewHub().ClientCount(); n != 0 {
		t.Errorf("expected 0 clients, got %d", n)
	}
}
