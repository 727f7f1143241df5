package display

import (
	"strings"
	"testing"
	"time"

	"sarlink/internal/fleet"
	"sarlink/internal/journal"
	"sarlink/internal/metrics"
	"sarlink/internal/mission"
	"sarlink/internal/planner"
)

func TestFormatProposal(t *testing.T) {
	p := &mission.Proposal{
		ID: "ab12cd34",
		Plan: &planner.Plan{
			Reasoning:    "Drone scans ahead, dog follows.",
			SafetyChecks: []string{"UAV altitude > 1m"},
			Tasks: []planner.Task{
				{Description: "Scan the collapse", AssignedTo: "Sky-Eye-1", Type: planner.TaskInspect, Priority: planner.PriorityHigh,
					TargetCoordinates: &planner.Coordinates{X: 40, Y: 2, Z: 2}},
				{Description: "Sweep entrance", AssignedTo: "Go2-Alpha", Type: planner.TaskSearch, Priority: planner.PriorityMedium},
			},
		},
		Warnings: []string{"task 1: something odd"},
	}

	out := FormatProposal(p)
	for _, want := range []string{
		"Proposed mission plan (ID: ab12cd34)",
		"Reasoning: Drone scans ahead, dog follows.",
		"UAV altitude > 1m",
		"1. [HIGH] INSPECT -> Sky-Eye-1 @ (40.0, 2.0, 2.0)",
		"2. [MEDIUM] SEARCH -> Go2-Alpha",
		"! task 1: something odd",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("The proposal output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "FAILED") {
		t.Errorf("Successful proposal must not be marked failed")
	}

	if FormatProposal(nil) != "No plan awaiting confirmation." {
		t.Errorf("Unexpected output for nil proposal")
	}
}

func TestFormatPlanTruncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	plan := &planner.Plan{Reasoning: long}

	if out := FormatPlan(plan); !strings.Contains(out, strings.Repeat("x", 100)+"...") || strings.Contains(out, long) {
		t.Errorf("Expected reasoning truncated to 100 chars")
	}
	if out := FormatPlanFull(plan); !strings.Contains(out, long) {
		t.Errorf("Expected full reasoning in full format")
	}
}

func TestFormatFleet(t *testing.T) {
	robots := fleet.DefaultFleet()
	robots[1].NavGoal = &fleet.Position{X: 30, Y: 1}
	robots[1].CurrentTask = "Scan"

	out := FormatFleet(robots)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Go2-Alpha") || !strings.Contains(lines[1], "88.0%") {
		t.Errorf("Unexpected row %q", lines[1])
	}
	if !strings.Contains(lines[2], "Scan -> (30.0, 1.0)") {
		t.Errorf("Expected nav goal in row %q", lines[2])
	}
}

func TestFormatLogs(t *testing.T) {
	ts := time.Date(2026, 1, 2, 13, 4, 5, 0, time.UTC)
	e := journal.Entry{Timestamp: ts, Source: "DISPATCH", Level: journal.LevelError, Message: "Could not assign task to unknown robot: X"}

	if got := FormatLogEntry(e); got != "13:04:05 [ERROR] DISPATCH    Could not assign task to unknown robot: X" {
		t.Errorf("Unexpected log line %q", got)
	}
	if FormatLogs(nil) != "No log entries." {
		t.Errorf("Unexpected output for empty log")
	}
}

func TestFormatExecutionMetrics(t *testing.T) {
	em := &metrics.ExecutionMetrics{
		ProposalID: "p1",
		Tasks: []metrics.TaskMetrics{
			{Index: 0, AssignedTo: "Go2-Alpha", Type: "SEARCH", Assigned: true},
			{Index: 1, AssignedTo: "Unknown-Bot", Type: "WAIT"},
		},
	}
	em.Finalize()

	out := FormatExecutionMetrics(em)
	if !strings.Contains(out, "assigned=1, unresolved=1") || !strings.Contains(out, "[skipped]") {
		t.Errorf("Unexpected metrics output:\n%s", out)
	}
	if FormatExecutionMetrics(nil) != "No metrics available." {
		t.Errorf("Unexpected output for nil metrics")
	}
	if !strings.Contains(FormatPlanMetrics(&metrics.PlanMetrics{Backend: "gemini", Err: "boom"}), "error: boom") {
		t.Errorf("Expected plan error in output")
	}
}

func TestFormatPlansCatalog(t *testing.T) {
	plans := []planner.NamedPlan{{Name: "sweep", Plan: &planner.Plan{Tasks: []planner.Task{{AssignedTo: "A"}, {AssignedTo: "A"}}}}}
	if out := FormatPlansCatalog("drill.json", plans); !strings.Contains(out, "1. sweep  (tasks=2, robots=1)") {
		t.Errorf("Unexpected catalog:\n%s", out)
	}
}
