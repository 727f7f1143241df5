package journal

import (
	"fmt"
	"testing"

	"sarlink/internal/logger"
)

func init() { logger.Discard() }

func TestJournalEvictsOldestFirst(t *testing.T) {
	j := New(DefaultCapacity)
	for i := 0; i < 60; i++ {
		j.Append("TEST", LevelInfo, fmt.Sprintf("msg-%d", i))
	}

	entries := j.Entries()
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
	for i, e := range entries {
		want := fmt.Sprintf("msg-%d", i+10)
		if e.Message != want {
			t.Fatalf("entry %d: got %q, want %q", i, e.Message, want)
		}
	}
}

func TestJournalNeverExceedsCapacity(t *testing.T) {
	j := New(3)
	for i := 0; i < 10; i++ {
		j.Append("TEST", LevelDebug, "x")
		if j.Len() > 3 {
			t.Fatalf("journal grew to %d", j.Len())
		}
	}
}

func TestJournalDefaultsCapacity(t *testing.T) {
	if got := New(0).Cap(); got != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}

func TestJournalHookAndTimestamp(t *testing.T) {
	j := New(5)
	var seen []Entry
	j.OnAppend(func(e Entry) { seen = append(seen, e) })

	e := j.Append("uav_01", LevelWarn, "detected")
	if e.Timestamp.IsZero() {
		t.Errorf("expected timestamp to be captured")
	}
	if len(seen) != 1 || seen[0].Source != "uav_01" || seen[0].Level != LevelWarn {
		t.Errorf("hook did not receive entry: %+v", seen)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	j := New(5)
	j.Append("A", LevelInfo, "one")
	got := j.Entries()
	got[0].Message = "changed"
	if j.Entries()[0].Message != "one" {
		t.Errorf("Entries must not alias internal storage")
	}
}
