package mission

import (
	"time"

	"github.com/google/uuid"

	"sarlink/internal/executor"
	"sarlink/internal/metrics"
	"sarlink/internal/planner"
)

// Proposal is a plan shown to the operator and waiting for confirmation.
type Proposal struct {
	ID          string              `json:"id"`
	Instruction string              `json:"instruction"`
	Plan        *planner.Plan       `json:"plan"`
	Failed      bool                `json:"failed"`
	Warnings    []string            `json:"warnings,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Metrics     metrics.PlanMetrics `json:"metrics"`
}

type Execution struct {
	Proposal *Proposal                `json:"proposal"`
	Result   executor.Result          `json:"result"`
	Metrics  metrics.ExecutionMetrics `json:"metrics"`
}

func newProposalID() string {
	return uuid.New().String()[:8]
}
