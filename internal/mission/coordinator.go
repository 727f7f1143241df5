package mission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sarlink/internal/events"
	"sarlink/internal/executor"
	"sarlink/internal/fleet"
	"sarlink/internal/journal"
	"sarlink/internal/logger"
	"sarlink/internal/metrics"
	"sarlink/internal/planner"
	"sarlink/internal/sim"
)

const (
	SourcePlanner     = "PLANNER"
	SourceCoordinator = "COORDINATOR"
)

var (
	ErrNoProposal    = errors.New("no plan awaiting confirmation")
	ErrStaleProposal = errors.New("plan is no longer current")
)

type Options struct {
	Tunnel planner.Tunnel
	// Timeout bounds a single planning request. Zero means none.
	Timeout time.Duration
}

// Coordinator owns the mission state shared by every operator surface: the
// fleet, the journal, the simulator and the single plan awaiting confirmation.
type Coordinator struct {
	store     *fleet.Store
	journal   *journal.Journal
	sim       *sim.Simulator
	requester *planner.Requester
	bus       *events.Bus
	opts      Options

	mu      sync.Mutex
	current *Proposal
}

// New wires the components together. bus may be nil.
func New(store *fleet.Store, j *journal.Journal, s *sim.Simulator, r *planner.Requester, bus *events.Bus, opts Options) *Coordinator {
	if opts.Tunnel == (planner.Tunnel{}) {
		opts.Tunnel = planner.DefaultTunnel()
	}
	c := &Coordinator{store: store, journal: j, sim: s, requester: r, bus: bus, opts: opts}

	j.OnAppend(func(e journal.Entry) {
		c.emit(events.EventLogAppended, events.LogAppendedEvent{Entry: e})
	})
	if s != nil {
		s.OnTick(func(n uint64) {
			if c.bus == nil {
				return
			}
			c.emit(events.EventFleetTicked, events.FleetTickedEvent{Tick: n, Fleet: store.Snapshot()})
		})
	}
	return c
}

func (c *Coordinator) emit(t events.EventType, payload any) {
	if c.bus == nil {
		return
	}
	c.bus.Emit(events.Event{Type: t, Payload: payload})
}

// Submit requests a plan for instruction and makes it the current proposal.
// A failed request still produces a proposal carrying the failure plan.
func (c *Coordinator) Submit(ctx context.Context, instruction string) (*Proposal, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, planner.ErrEmptyInstruction
	}
	if c.requester.Pending() {
		c.journal.Append(SourcePlanner, journal.LevelWarn, "Planner busy, wait for the current request to finish.")
		return nil, planner.ErrBusy
	}

	c.journal.Append(SourcePlanner, journal.LevelInfo, fmt.Sprintf("Planning mission: %q", instruction))
	c.emit(events.EventPlanRequested, events.PlanRequestedEvent{Instruction: instruction})

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	res, err := c.requester.Request(ctx, instruction, c.store.Snapshot())
	if err != nil {
		if errors.Is(err, planner.ErrBusy) {
			c.journal.Append(SourcePlanner, journal.LevelWarn, "Planner busy, wait for the current request to finish.")
		}
		return nil, err
	}

	if res.Failed {
		logger.Log.Printf("[Coordinator] plan request %s failed: %v", res.ID, res.Cause)
	}
	p := c.propose(res.ID, instruction, res.Plan, res.Failed, res.Metrics)
	if len(p.Plan.Tasks) > 0 {
		c.journal.Append(SourcePlanner, journal.LevelInfo,
			fmt.Sprintf("Plan generated: %d task(s). %s", len(p.Plan.Tasks), p.Plan.Reasoning))
	} else {
		c.journal.Append(SourcePlanner, journal.LevelError, "Plan failed: "+p.Plan.Reasoning)
	}
	return p, nil
}

// Load makes a pre-authored plan the current proposal.
func (c *Coordinator) Load(np planner.NamedPlan) (*Proposal, error) {
	if np.Plan == nil {
		return nil, fmt.Errorf("plan %q has no content", np.Name)
	}
	now := time.Now()
	pm := metrics.PlanMetrics{RequestID: newProposalID(), Backend: "file", Start: now, End: now, Succeeded: true, Tasks: len(np.Plan.Tasks)}
	p := c.propose(pm.RequestID, np.Name, np.Plan, false, pm)
	c.journal.Append(SourcePlanner, journal.LevelInfo, fmt.Sprintf("Loaded plan %q: %d task(s).", np.Name, len(np.Plan.Tasks)))
	return p, nil
}

func (c *Coordinator) propose(id, instruction string, plan *planner.Plan, failed bool, pm metrics.PlanMetrics) *Proposal {
	p := &Proposal{
		ID:          id,
		Instruction: instruction,
		Plan:        plan,
		Failed:      failed,
		Warnings:    planner.Review(plan, c.store.Snapshot(), c.opts.Tunnel),
		CreatedAt:   time.Now(),
		Metrics:     pm,
	}
	c.mu.Lock()
	c.current = p
	c.mu.Unlock()

	c.emit(events.EventPlanProposed, events.PlanProposedEvent{
		ProposalID: p.ID,
		Tasks:      len(plan.Tasks),
		Failed:     failed,
		Reasoning:  plan.Reasoning,
	})
	return p
}

// take removes and returns the current proposal if id matches it. An empty
// id matches whatever is current.
func (c *Coordinator) take(id string) (*Proposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoProposal
	}
	if id != "" && !strings.EqualFold(id, c.current.ID) {
		return nil, fmt.Errorf("%w: %s (current is %s)", ErrStaleProposal, id, c.current.ID)
	}
	p := c.current
	c.current = nil
	return p, nil
}

// Execute applies the proposal to the fleet and clears it.
func (c *Coordinator) Execute(id string) (*Execution, error) {
	p, err := c.take(id)
	if err != nil {
		return nil, err
	}

	c.journal.Append(SourceCoordinator, journal.LevelWarn, "Executing multi-agent plan...")
	res, em := executor.Apply(p.Plan, c.store, c.journal, p.ID)

	c.emit(events.EventPlanExecuted, events.PlanExecutedEvent{
		ProposalID: p.ID,
		Assigned:   res.Assigned,
		Unresolved: len(res.Unresolved),
	})
	return &Execution{Proposal: p, Result: res, Metrics: em}, nil
}

// Discard drops the proposal without touching the fleet.
func (c *Coordinator) Discard(id string) (*Proposal, error) {
	p, err := c.take(id)
	if err != nil {
		return nil, err
	}
	c.journal.Append(SourceCoordinator, journal.LevelInfo, "Plan discarded")
	c.emit(events.EventPlanDiscarded, events.PlanDiscardedEvent{ProposalID: p.ID})
	return p, nil
}

// Current returns the proposal awaiting confirmation, or nil.
func (c *Coordinator) Current() *Proposal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Coordinator) Fleet() []fleet.Robot { return c.store.Snapshot() }
func (c *Coordinator) Logs() []journal.Entry { return c.journal.Entries() }
func (c *Coordinator) Busy() bool { return c.requester.Pending() }
func (c *Coordinator) Bus() *events.Bus { return c.bus }
func (c *Coordinator) Options() Options { return c.opts }

func (c *Coordinator) Tick() { c.sim.Tick() }
func (c *Coordinator) Advance(n int) { c.sim.Advance(n) }

// Run drives the simulator until ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	logger.Log.Printf("[Coordinator] simulator started (interval %s)", c.sim.Params().Interval)
	err := c.sim.Run(ctx)
	logger.Log.Printf("[Coordinator] simulator stopped after %d ticks", c.sim.Ticks())
	return err
}
