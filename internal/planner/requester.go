package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sarlink/internal/fleet"
	"sarlink/internal/metrics"
)

var (
	ErrEmptyInstruction = errors.New("empty instruction")
	ErrBusy             = errors.New("a planning request is already in flight")
)

// Capability is the external planning function. *llm_client.Client satisfies it.
type Capability interface {
	Available() bool
	Backend() string
	GenerateJSON(ctx context.Context, system, prompt string, schema any) (string, error)
}

type Result struct {
	ID      string
	Plan    *Plan
	Failed  bool
	Cause   error
	Metrics metrics.PlanMetrics
}

// Requester issues planning requests, one at a time.
type Requester struct {
	capability Capability

	mu      sync.Mutex
	pending bool

	newID func() string
	now   func() time.Time
}

func NewRequester(c Capability) *Requester {
	return &Requester{
		capability: c,
		newID:      func() string { return uuid.New().String()[:8] },
		now:        time.Now,
	}
}

// Pending reports whether a request is in flight.
func (r *Requester) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Requester) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending {
		return false
	}
	r.pending = true
	return true
}

func (r *Requester) release() {
	r.mu.Lock()
	r.pending = false
	r.mu.Unlock()
}

// Request asks the capability for a plan. The only errors returned are
// ErrEmptyInstruction and ErrBusy; every planning failure is folded into a
// FailurePlan on the result.
func (r *Requester) Request(ctx context.Context, instruction string, robots []fleet.Robot) (*Result, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}
	if !r.acquire() {
		return nil, ErrBusy
	}
	defer r.release()

	res := &Result{ID: r.newID()}
	res.Metrics = metrics.PlanMetrics{RequestID: res.ID, Start: r.now()}
	if r.capability != nil {
		res.Metrics.Backend = r.capability.Backend()
	}

	plan, reason, err := r.generate(ctx, instruction, robots)
	if err != nil {
		res.Plan = FailurePlan(reason)
		res.Failed = true
		res.Cause = err
		res.Metrics.Err = err.Error()
	} else {
		res.Plan = plan
		res.Metrics.Succeeded = true
	}

	res.Metrics.Tasks = len(res.Plan.Tasks)
	res.Metrics.End = r.now()
	res.Metrics.Finalize()
	return res, nil
}

func (r *Requester) generate(ctx context.Context, instruction string, robots []fleet.Robot) (*Plan, string, error) {
	if r.capability == nil || !r.capability.Available() {
		var cause error = errors.New("no planning capability configured")
		if withErr, ok := r.capability.(interface{ Err() error }); ok && withErr.Err() != nil {
			cause = withErr.Err()
		}
		return nil, "Planner unavailable: API key missing or backend not configured.", cause
	}

	raw, err := r.capability.GenerateJSON(ctx, buildSystemInstruction(robots), instruction, responseSchema())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate plan from LLM: %w", err)
	}

	plan, err := parsePlan(raw)
	if err != nil {
		return nil, "Failed to parse planner response.", err
	}
	return plan, "", nil
}

func parsePlan(raw string) (*Plan, error) {
	cleanJson := strings.TrimSpace(raw)
	cleanJson = strings.TrimPrefix(cleanJson, "```json")
	cleanJson = strings.TrimPrefix(cleanJson, "```")
	cleanJson = strings.TrimSuffix(cleanJson, "```")
	cleanJson = strings.TrimSpace(cleanJson)
	if cleanJson == "" {
		return nil, fmt.Errorf("no response from planner")
	}

	var plan Plan
	if err := json.Unmarshal([]byte(cleanJson), &plan); err != nil {
		return nil, fmt.Errorf("error parsing generated plan JSON: %v\nRaw Response: %s", err, raw)
	}
	plan.normalize()
	return &plan, nil
}
