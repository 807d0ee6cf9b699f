package realtime

import (
	"context"
	"testing"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []string
	unsubscribe := bus.Subscribe("requests", func(table string) {
		got = append(got, table)
	})

	bus.Publish(context.Background(), "requests")
	bus.Publish(context.Background(), "requests")

	if len(got) != 2 {
		t.Fatalf("received %d notifications, want 2", len(got))
	}
	if got[0] != "requests" {
		t.Errorf("notification carried table %q", got[0])
	}

	unsubscribe()
	bus.Publish(context.Background(), "requests")
	if len(got) != 2 {
		t.Error("received a notification after unsubscribe")
	}
}

func TestBusTableIsolation(t *testing.T) {
	bus := NewBus()

	requests := 0
	profiles := 0
	bus.Subscribe("requests", func(string) { requests++ })
	bus.Subscribe("profiles", func(string) { profiles++ })

	bus.Publish(context.Background(), "requests")

	if requests != 1 || profiles != 0 {
		t.Errorf("requests=%d profiles=%d, want 1/0", requests, profiles)
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	a, b := 0, 0
	bus.Subscribe("requests", func(string) { a++ })
	unsubB := bus.Subscribe("requests", func(string) { b++ })

	bus.Publish(context.Background(), "requests")
	unsubB()
	bus.Publish(context.Background(), "requests")

	if a != 2 || b != 1 {
		t.Errorf("a=%d b=%d, want 2/1", a, b)
	}
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	// Fire-and-forget: publishing into the void must not panic or block.
	bus.Publish(context.Background(), "requests")
	if err := bus.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}
