package events

import (
	"sarlink/internal/fleet"
	"sarlink/internal/journal"
)

const (
	EventLogAppended EventType = iota + 1
	EventFleetTicked
	EventPlanRequested
	EventPlanProposed
	EventPlanExecuted
	EventPlanDiscarded
)

// --- Event payloads ---

type LogAppendedEvent struct {
	Entry journal.Entry
}

// FleetTickedEvent carries the post-tick snapshot.
type FleetTickedEvent struct {
	Tick  uint64
	Fleet []fleet.Robot
}

type PlanRequestedEvent struct {
	Instruction string
}

type PlanProposedEvent struct {
	ProposalID string
	Tasks      int
	Failed     bool
	Reasoning  string
}

type PlanExecutedEvent struct {
	ProposalID string
	Assigned   int
	Unresolved int
}

type PlanDiscardedEvent struct {
	ProposalID string
}

func (t EventType) String() string {
	switch t {
	case EventLogAppended:
		return "log"
	case EventFleetTicked:
		return "fleet"
	case EventPlanRequested:
		return "plan-requested"
	case EventPlanProposed:
		return "plan-proposed"
	case EventPlanExecuted:
		return "plan-executed"
	case EventPlanDiscarded:
		return "plan-discarded"
	}
	return "unknown"
}
