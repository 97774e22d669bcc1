package app

import (
	"testing"

	"github.com/openmeet/salas/internal/core"
)

func TestLocalBus_PublishReachesSubscriber(t *testing.T) {
	bus := NewLocalBus()

	var got []core.BusEvent
	if err := bus.Subscribe("room-1", func(ev core.BusEvent) {
		got = append(got, ev)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := core.BusEvent{Room: "room-1", Origin: "conn-a", Frame: core.Frame(`{"type":"signal"}`)}
	if err := bus.Publish(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Origin != "conn-a" {
		t.Fatalf("expected the published event, got %v", got)
	}

	// Other rooms stay quiet.
	if err := bus.Publish(core.BusEvent{Room: "room-2", Origin: "conn-a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("event for another room leaked to this subscriber")
	}
}

func TestLocalBus_Unsubscribe(t *testing.T) {
	bus := NewLocalBus()

	delivered := 0
	bus.Subscribe("room-1", func(core.BusEvent) { delivered++ })
	bus.Unsubscribe("room-1")

	if err := bus.Publish(core.BusEvent{Room: "room-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivered != 0 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", delivered)
	}
}
