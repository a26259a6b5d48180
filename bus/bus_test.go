// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

var (
	topicBringup = Topic{"system", "bringup"}
	topicClocks  = Topic{"system", "clocks"}
)

func recv(t *testing.T, s *Subscription) *Message {
	t.Helper()
	select {
	case m, ok := <-s.Channel():
		if !ok {
			t.Fatal("channel closed")
		}
		return m
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
	return nil
}

func expectNone(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case m := <-s.Channel():
		t.Fatalf("unexpected message on %v", m.Topic)
	default:
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(topicBringup)

	conn.Publish(conn.NewMessage(topicBringup, "hello", false))
	if got := recv(t, sub); got.Payload.(string) != "hello" {
		t.Fatalf("payload %v", got.Payload)
	}
	conn.Publish(conn.NewMessage(topicClocks, "other", false))
	expectNone(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")
	conn.Publish(conn.NewMessage(topicBringup, "first", true))
	conn.Publish(conn.NewMessage(topicBringup, "persist", true))

	sub := conn.Subscribe(topicBringup)
	if got := recv(t, sub); got.Payload.(string) != "persist" {
		t.Fatalf("retained %v", got.Payload)
	}
	expectNone(t, sub)

	m, ok := b.Retained(topicBringup)
	if !ok || m.Payload.(string) != "persist" {
		t.Fatalf("Retained lookup: %v %v", m, ok)
	}

	conn.Publish(conn.NewMessage(topicBringup, nil, true))
	if _, ok := b.Retained(topicBringup); ok {
		t.Fatal("nil payload did not clear retained message")
	}
}

func TestWildcardTail(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")
	c.Publish(c.NewMessage(topicClocks, 1, true))

	sub := c.Subscribe(Topic{"system", Wildcard})
	if got := recv(t, sub); got.Topic.String() != "system/clocks" {
		t.Fatalf("retained via wildcard: %v", got.Topic)
	}
	c.Publish(c.NewMessage(topicBringup, 2, false))
	c.Publish(c.NewMessage(Topic{"audio", "stats"}, 3, false))
	if got := recv(t, sub); got.Payload.(int) != 2 {
		t.Fatalf("payload %v", got.Payload)
	}
	expectNone(t, sub)
}

func TestQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	sub := c.Subscribe(topicBringup)
	for i := 0; i < 5; i++ {
		c.Publish(c.NewMessage(topicBringup, i, false))
	}
	if a, z := recv(t, sub).Payload.(int), recv(t, sub).Payload.(int); a != 3 || z != 4 {
		t.Fatalf("kept %d,%d want 3,4", a, z)
	}
}

func TestUnsubscribeAndDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(topicBringup)
	s2 := c.Subscribe(topicClocks)

	s1.Unsubscribe()
	s1.Unsubscribe()
	if _, ok := <-s1.Channel(); ok {
		t.Fatal("s1 still open")
	}
	c.Disconnect()
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("s2 still open")
	}
	c.Publish(c.NewMessage(topicBringup, "late", false))
}
