package events

import "testing"

func TestSubscribeTypesFilters(t *testing.T) {
	bus := NewBus()
	var all, plans int
	bus.Subscribe(func(Event) { all++ })
	bus.SubscribeTypes(func(Event) { plans++ }, EventPlanProposed, EventPlanExecuted)

	bus.Emit(Event{Type: EventFleetTicked})
	bus.Emit(Event{Type: EventPlanProposed})
	bus.Emit(Event{Type: EventPlanExecuted})

	if all != 3 {
		t.Errorf("expected 3 events on catch-all, got %d", all)
	}
	if plans != 2 {
		t.Errorf("expected 2 plan events, got %d", plans)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	n := 0
	id := bus.Subscribe(func(Event) { n++ })
	bus.Emit(Event{Type: EventLogAppended})
	bus.Unsubscribe(id)
	bus.Emit(Event{Type: EventLogAppended})
	if n != 1 {
		t.Errorf("expected 1 delivery, got %d", n)
	}
}

func TestEmitStampsTimestamp(t *testing.T) {
	bus := NewBus()
	var got Event
	bus.Subscribe(func(e Event) { got = e })
	bus.Emit(Event{Type: EventPlanDiscarded, Payload: PlanDiscardedEvent{ProposalID: "abc"}})
	if got.Timestamp.IsZero() {
		t.Errorf("expected timestamp to be set")
	}
	if p, ok := got.Payload.(PlanDiscardedEvent); !ok || p.ProposalID != "abc" {
		t.Errorf("unexpected payload %+v", got.Payload)
	}
}

func TestEventTypeString(t *testing.T) {
	testCases := map[EventType]string{
		EventLogAppended:  "log",
		EventFleetTicked:  "fleet",
		EventPlanProposed: "plan-proposed",
		EventType(99):     "unknown",
	}
	for typ, want := range testCases {
		if got := typ.String(); got != want {
			t.Errorf("%d: got %q want %q", typ, got, want)
		}
	}
}
