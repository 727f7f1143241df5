package display

import (
	"fmt"
	"strings"

	"sarlink/internal/metrics"
)

func FormatPlanMetrics(pm *metrics.PlanMetrics) string {
	if pm == nil {
		return "No metrics available."
	}
	s := fmt.Sprintf("Planning: %d ms via %s (success=%v, tasks=%d)", pm.DurationMs, pm.Backend, pm.Succeeded, pm.Tasks)
	if pm.Err != "" {
		s += "\n  error: " + truncate(pm.Err, maxFieldLength)
	}
	return s
}

func FormatExecutionMetrics(em *metrics.ExecutionMetrics) string {
	if em == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Execution metrics (plan %s):\n", em.ProposalID))
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (assigned=%d, unresolved=%d)\n", em.DurationMs, em.Assigned, em.Unresolved))
	for _, t := range em.Tasks {
		status := "ok"
		if !t.Assigned {
			status = "skipped"
		}
		sb.WriteString(fmt.Sprintf("    • %2d %-8s %-16s [%s]\n", t.Index+1, t.Type, t.AssignedTo, status))
	}
	return sb.String()
}
