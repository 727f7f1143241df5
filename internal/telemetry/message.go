package telemetry

import (
	"encoding/json"
	"time"

	"sarlink/internal/events"
	"sarlink/internal/fleet"
	"sarlink/internal/journal"
)

// Message is the envelope mirrored to external brokers.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

type robotState struct {
	Tick  uint64      `json:"tick"`
	Robot fleet.Robot `json:"robot"`
}

func encode(evt events.Event, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: evt.Type.String(), Timestamp: evt.Timestamp, Payload: payload})
}

// sampler passes every nth tick through. n <= 1 passes all.
type sampler struct{ n uint64 }

func (s sampler) keep(tick uint64) bool {
	return s.n <= 1 || tick%s.n == 0
}

func logPayload(evt events.Event) (journal.Entry, bool) {
	ev, ok := evt.Payload.(events.LogAppendedEvent)
	return ev.Entry, ok
}
