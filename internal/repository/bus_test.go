package repository

import "testing"

func TestBusCoalescesSignals(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, cancel := bus.Subscribe(TableTasks, "u1")
	defer cancel()

	bus.Publish(TableTasks, "u1")
	bus.Publish(TableTasks, "u1")
	bus.Publish(TableTasks, "u2")
	bus.Publish(TableReminders, "u1")

	select {
	case <-ch:
	default:
		t.Fatalf("expected a pending signal")
	}
	select {
	case <-ch:
		t.Fatalf("expected signals to be coalesced")
	default:
	}
}

func TestBusCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, cancel := bus.Subscribe(TableTasks, "u1")
	cancel()
	cancel()

	if n := bus.subscribers(TableTasks, "u1"); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}
	bus.Publish(TableTasks, "u1")
}
