package display

import (
	"fmt"
	"strings"

	"sarlink/internal/mission"
	"sarlink/internal/planner"
)

const maxFieldLength = 100

func FormatPlansCatalog(file string, plans []planner.NamedPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d plan(s) in %s:\n", len(plans), file))
	for i, p := range plans {
		robots := map[string]struct{}{}
		for _, t := range p.Plan.Tasks {
			robots[t.AssignedTo] = struct{}{}
		}
		sb.WriteString(fmt.Sprintf("  %2d. %s  (tasks=%d, robots=%d)\n",
			i+1, p.Name, len(p.Plan.Tasks), len(robots)))
	}
	return sb.String()
}

// FormatProposal renders a proposal for the console, truncating long text.
func FormatProposal(p *mission.Proposal) string {
	if p == nil {
		return "No plan awaiting confirmation."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Proposed mission plan (ID: %s)\n", p.ID))
	if p.Failed {
		sb.WriteString("Planner FAILED, nothing will be assigned.\n")
	}
	sb.WriteString(formatPlanInternal(p.Plan, maxFieldLength))
	if len(p.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range p.Warnings {
			sb.WriteString("  ! " + w + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatPlan(plan *planner.Plan) string {
	return formatPlanInternal(plan, maxFieldLength)
}

// FormatPlanFull renders without truncation, for the process log.
func FormatPlanFull(plan *planner.Plan) string {
	return formatPlanInternal(plan, -1)
}

func formatPlanInternal(plan *planner.Plan, limit int) string {
	var sb strings.Builder
	sb.WriteString("--------------------------------------------------\n")
	if plan == nil {
		sb.WriteString("(empty)\n")
		sb.WriteString("--------------------------------------------------")
		return sb.String()
	}
	sb.WriteString("Reasoning: " + truncate(plan.Reasoning, limit) + "\n")
	if len(plan.SafetyChecks) > 0 {
		sb.WriteString("Safety checks:\n")
		for _, c := range plan.SafetyChecks {
			sb.WriteString("  - " + truncate(c, limit) + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("Tasks (%d):\n", len(plan.Tasks)))
	for i, t := range plan.Tasks {
		sb.WriteString(fmt.Sprintf("  %d. [%s] %s -> %s", i+1, t.Priority, t.Type, t.AssignedTo))
		if c := t.TargetCoordinates; c != nil {
			sb.WriteString(fmt.Sprintf(" @ (%.1f, %.1f, %.1f)", c.X, c.Y, c.Z))
		}
		sb.WriteString("\n")
		if t.Description != "" {
			sb.WriteString("     " + truncate(t.Description, limit) + "\n")
		}
	}
	sb.WriteString("--------------------------------------------------")
	return sb.String()
}

// limit < 0 means no limit
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if limit >= 0 && len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
