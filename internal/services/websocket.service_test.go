package services

import (
	"testing"

	"nigraan/internal/models"
)

func testClient(id string) *ClientConn {
	return &ClientConn{ID: id, Send: make(chan Envelope, 16)}
}

func drain(c *ClientConn) []Envelope {
	var out []Envelope
	for {
		select {
		case env := <-c.Send:
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestBroadcastReachesDefaultSubscribers(t *testing.T) {
	hub := NewHub()
	c1 := testClient("c1")
	hub.Register(c1)

	hub.Broadcast(ChannelSensorReadings, "payload")
	hub.Broadcast(ChannelSafetyAlerts, "payload")

	got := drain(c1)
	if len(got) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(got))
	}
}

func TestBroadcastScopedByUnsubscribe(t *testing.T) {
	hub := NewHub()
	c1 := testClient("c1")
	c2 := testClient("c2")
	hub.Register(c1)
	hub.Register(c2)

	hub.Unsubscribe("c1", ChannelSafetyAlerts)
	hub.Broadcast(ChannelSafetyAlerts, "alert")

	if got := drain(c1); len(got) != 0 {
		t.Fatalf("unsubscribed client received %d envelopes", len(got))
	}
	got := drain(c2)
	if len(got) != 1 {
		t.Fatalf("subscribed client: expected 1 envelope, got %d", len(got))
	}
	if got[0].Type != ChannelSafetyAlerts {
		t.Errorf("envelope type: got %s", got[0].Type)
	}
}

func TestResubscribeRestoresDelivery(t *testing.T) {
	hub := NewHub()
	c1 := testClient("c1")
	hub.Register(c1)

	hub.Unsubscribe("c1", ChannelSensorReadings)
	hub.Subscribe("c1", ChannelSensorReadings)
	hub.Broadcast(ChannelSensorReadings, "r")

	if got := drain(c1); len(got) != 1 {
		t.Fatalf("expected 1 envelope after resubscribe, got %d", len(got))
	}
}

// Commands for unknown or already-gone connections are silent no-ops.
func TestCommandsIgnoreUnknownConnection(t *testing.T) {
	hub := NewHub()

	hub.Subscribe("ghost", ChannelSensorReadings)
	hub.Unsubscribe("ghost", ChannelSensorReadings)
	hub.Unsubscribe("ghost", ChannelSensorReadings) // twice
	hub.Authenticate("ghost", models.Principal{ID: "u1"})
	hub.Unregister("ghost")

	if hub.ClientCount() != 0 {
		t.Fatalf("client count: got %d", hub.ClientCount())
	}
}

func TestUnregisterIdempotentAndClosesSend(t *testing.T) {
	hub := NewHub()
	c1 := testClient("c1")
	hub.Register(c1)

	hub.Unregister("c1")
	hub.Unregister("c1")

	if _, open := <-c1.Send; open {
		t.Fatal("send channel still open after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("client count: got %d", hub.ClientCount())
	}
}

func TestAuthenticateAttachesPrincipalAndAcks(t *testing.T) {
	hub := NewHub()
	c1 := testClient("c1")
	hub.Register(c1)

	hub.Authenticate("c1", models.Principal{ID: "u1", Email: "u1@example.com", Name: "User One"})

	p, ok := hub.Principal("c1")
	if !ok {
		t.Fatal("principal not attached")
	}
	if p.ID != "u1" || p.Name != "User One" {
		t.Fatalf("principal: got %+v", p)
	}

	got := drain(c1)
	if len(got) != 1 {
		t.Fatalf("expected 1 ack envelope, got %d", len(got))
	}
	if got[0].Type != ChannelAuthenticated {
		t.Errorf("ack type: got %s", got[0].Type)
	}
	data, ok := got[0].Data.(map[string]bool)
	if !ok || !data["success"] {
		t.Errorf("ack payload: got %+v", got[0].Data)
	}
}

func TestPrincipalAbsentByDefault(t *testing.T) {
	hub := NewHub()
	hub.Register(testClient("c1"))

	if _, ok := hub.Principal("c1"); ok {
		t.Fatal("unauthenticated connection reports a principal")
	}
}

// A slow client with a full buffer drops frames instead of blocking the hub.
func TestBroadcastDropsWhenClientBufferFull(t *testing.T) {
	hub := NewHub()
	slow := &ClientConn{ID: "slow", Send: make(chan Envelope, 1)}
	hub.Register(slow)

	hub.Broadcast(ChannelSensorReadings, "a")
	hub.Broadcast(ChannelSensorReadings, "b") // dropped, buffer full

	if got := drain(slow); len(got) != 1 {
		t.Fatalf("expected 1 buffered envelope, got %d", len(got))
	}
}
