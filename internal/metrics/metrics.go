package metrics

import "time"

// PlanMetrics describes one planning request.
type PlanMetrics struct {
	RequestID  string    `json:"request_id"`
	Backend    string    `json:"backend"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMs int64     `json:"duration_ms"`
	Succeeded  bool      `json:"succeeded"`
	Tasks      int       `json:"tasks"`
	Err        string    `json:"err,omitempty"`
}

type TaskMetrics struct {
	Index      int    `json:"index"`
	AssignedTo string `json:"assigned_to"`
	Type       string `json:"type"`
	Assigned   bool   `json:"assigned"`
}

// ExecutionMetrics describes one plan application.
type ExecutionMetrics struct {
	ProposalID string        `json:"proposal_id"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	DurationMs int64         `json:"duration_ms"`
	Assigned   int           `json:"assigned"`
	Unresolved int           `json:"unresolved"`
	Tasks      []TaskMetrics `json:"tasks"`
}

// Finalize computes derived fields.
func (p *PlanMetrics) Finalize() {
	p.DurationMs = p.End.Sub(p.Start).Milliseconds()
}

func (e *ExecutionMetrics) Finalize() {
	e.DurationMs = e.End.Sub(e.Start).Milliseconds()
	e.Assigned, e.Unresolved = 0, 0
	for _, t := range e.Tasks {
		if t.Assigned {
			e.Assigned++
		} else {
			e.Unresolved++
		}
	}
}
