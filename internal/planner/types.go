package planner

type TaskType string

const (
	TaskSearch  TaskType = "SEARCH"
	TaskInspect TaskType = "INSPECT"
	TaskWait    TaskType = "WAIT"
	TaskReturn  TaskType = "RETURN"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Task struct {
	Description       string       `json:"description"`
	AssignedTo        string       `json:"assignedTo"`
	Type              TaskType     `json:"type"`
	Priority          Priority     `json:"priority"`
	TargetCoordinates *Coordinates `json:"targetCoordinates,omitempty"`
}

// Plan is a proposal returned by the planning capability. Slices are never
// nil after a request so callers can range and encode without checks.
type Plan struct {
	Reasoning    string   `json:"reasoning"`
	SafetyChecks []string `json:"safetyChecks"`
	Tasks        []Task   `json:"tasks"`
}

const EmergencyStopCheck = "Emergency Stop triggered due to planner failure."

// FailurePlan is the well-formed empty plan returned on any planning failure.
func FailurePlan(reasoning string) *Plan {
	if reasoning == "" {
		reasoning = "Failed to generate plan due to AI error."
	}
	return &Plan{
		Reasoning:    reasoning,
		SafetyChecks: []string{EmergencyStopCheck},
		Tasks:        []Task{},
	}
}

func (p *Plan) normalize() {
	if p.SafetyChecks == nil {
		p.SafetyChecks = []string{}
	}
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
}
