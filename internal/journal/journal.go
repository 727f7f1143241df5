package journal

import (
	"sync"
	"time"

	"sarlink/internal/logger"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelDebug Level = "DEBUG"
)

// DefaultCapacity is how many entries the operator sees.
const DefaultCapacity = 50

type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// Journal is the operator-visible event log. It keeps the most recent
// entries and drops the oldest first.
type Journal struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
	onAppend func(Entry)
}

func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// OnAppend registers a hook called after every append, outside the lock.
func (j *Journal) OnAppend(fn func(Entry)) {
	j.mu.Lock()
	j.onAppend = fn
	j.mu.Unlock()
}

func (j *Journal) Append(source string, level Level, message string) Entry {
	e := Entry{Timestamp: j.now(), Source: source, Level: level, Message: message}
	j.Record(e)
	return e
}

// Record appends a pre-built entry, stamping it if needed.
func (j *Journal) Record(e Entry) {
	j.mu.Lock()
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now()
	}
	if len(j.entries) == j.capacity {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:j.capacity-1]
	}
	j.entries = append(j.entries, e)
	hook := j.onAppend
	j.mu.Unlock()

	logger.Log.Printf("[%s] %s %s", e.Source, e.Level, e.Message)
	if hook != nil {
		hook(e)
	}
}

// Entries returns the retained entries, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

func (j *Journal) Cap() int { return j.capacity }
