package executor

import (
	"fmt"
	"time"

	"sarlink/internal/fleet"
	"sarlink/internal/journal"
	"sarlink/internal/metrics"
	"sarlink/internal/planner"
)

// Source is the journal tag for per-task dispatch entries.
const Source = "DISPATCH"

type Result struct {
	Assigned   int      `json:"assigned"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Apply assigns every task of plan to the robot whose display name matches
// exactly. Unknown robots are logged and skipped; assignments already made
// are never rolled back.
func Apply(plan *planner.Plan, store *fleet.Store, j *journal.Journal, proposalID string) (Result, metrics.ExecutionMetrics) {
	em := metrics.ExecutionMetrics{ProposalID: proposalID, Start: time.Now()}
	var res Result
	if plan == nil || store == nil {
		em.End = time.Now()
		em.Finalize()
		return res, em
	}

	// Entries are recorded after the store lock is released so journal
	// hooks may snapshot the fleet.
	var pending []journal.Entry
	store.Batch(func(lookup func(name string) *fleet.Robot) {
		for i, task := range plan.Tasks {
			tm := metrics.TaskMetrics{Index: i, AssignedTo: task.AssignedTo, Type: string(task.Type)}
			r := lookup(task.AssignedTo)
			if r == nil {
				res.Unresolved = append(res.Unresolved, task.AssignedTo)
				pending = append(pending, journal.Entry{
					Source:  Source,
					Level:   journal.LevelError,
					Message: fmt.Sprintf("Could not assign task to unknown robot: %s", task.AssignedTo),
				})
				em.Tasks = append(em.Tasks, tm)
				continue
			}

			assign(r, task)
			res.Assigned++
			tm.Assigned = true
			em.Tasks = append(em.Tasks, tm)
			pending = append(pending, journal.Entry{
				Source:  Source,
				Level:   journal.LevelInfo,
				Message: fmt.Sprintf("Assigned task to %s: %s", r.Name, task.Description),
			})
		}
	})

	if j != nil {
		for _, e := range pending {
			j.Record(e)
		}
	}

	em.End = time.Now()
	em.Finalize()
	return res, em
}

// assign applies one task to r. A target always wins over the task kind.
func assign(r *fleet.Robot, task planner.Task) {
	r.CurrentTask = task.Description

	if c := task.TargetCoordinates; c != nil {
		r.NavGoal = &fleet.Position{X: c.X, Y: c.Y, Z: c.Z}
		r.Status = fleet.StatusPlanning
		return
	}

	switch task.Type {
	case planner.TaskSearch:
		r.NavGoal = nil
		r.Status = fleet.StatusSearching
	case planner.TaskInspect:
		r.NavGoal = nil
		r.Status = fleet.StatusSearching
		r.DetectionConfidence = 0
	case planner.TaskReturn:
		home := r.Home
		home.Yaw = 0
		r.NavGoal = &home
		r.Status = fleet.StatusPlanning
	case planner.TaskWait:
		r.NavGoal = nil
		r.Status = fleet.StatusIdle
	}
}
