package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"sarlink/internal/fleet"
	"sarlink/internal/journal"
)

// Params are per-tick quantities; speeds and rates are in units per tick.
type Params struct {
	Interval        time.Duration `yaml:"interval"`
	BatteryDrain    float64       `yaml:"battery_drain"`
	GroundSpeed     float64       `yaml:"ground_speed"`
	AerialSpeed     float64       `yaml:"aerial_speed"`
	ArrivalRadius   float64       `yaml:"arrival_radius"`
	CruiseAltitude  float64       `yaml:"cruise_altitude"`
	ClimbRate       float64       `yaml:"climb_rate"`
	YawJitter       float64       `yaml:"yaw_jitter"`
	SearchStep      float64       `yaml:"search_step"`
	SearchBias      float64       `yaml:"search_bias"`
	DetectThreshold float64       `yaml:"detect_threshold"`
}

func DefaultParams() Params {
	return Params{
		Interval:        100 * time.Millisecond,
		BatteryDrain:    0.05,
		GroundSpeed:     0.2,
		AerialSpeed:     0.5,
		ArrivalRadius:   0.5,
		CruiseAltitude:  1.5,
		ClimbRate:       0.1,
		YawJitter:       10,
		SearchStep:      0.1,
		SearchBias:      0.3,
		DetectThreshold: 0.9,
	}
}

// Source yields uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type Simulator struct {
	store   *fleet.Store
	journal *journal.Journal
	params  Params

	rngMu sync.Mutex
	rng   Source
	ticks uint64

	onTick func(n uint64)
}

func New(store *fleet.Store, j *journal.Journal, params Params, rng Source) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5a4))
	}
	return &Simulator{store: store, journal: j, params: params, rng: rng}
}

// OnTick registers a hook called after each tick with the tick count.
func (s *Simulator) OnTick(fn func(n uint64)) { s.onTick = fn }

func (s *Simulator) Params() Params { return s.params }

// Ticks reports how many ticks have run.
func (s *Simulator) Ticks() uint64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.ticks
}

// Tick advances every robot by one step. Journal entries are appended after
// the fleet lock is released.
func (s *Simulator) Tick() {
	var pending []journal.Entry
	s.rngMu.Lock()
	s.store.Each(func(r *fleet.Robot) {
		pending = append(pending, Step(r, s.params, s.rng)...)
	})
	s.ticks++
	n := s.ticks
	s.rngMu.Unlock()

	for _, e := range pending {
		s.journal.Record(e)
	}
	if s.onTick != nil {
		s.onTick(n)
	}
}

// Advance runs n ticks synchronously.
func (s *Simulator) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Run ticks at params.Interval until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	interval := s.params.Interval
	if interval <= 0 {
		interval = DefaultParams().Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Step applies one tick to r and returns the journal entries it produced.
// It depends only on r's own previous state and rng.
func Step(r *fleet.Robot, p Params, rng Source) []journal.Entry {
	var out []journal.Entry

	if r.Status != fleet.StatusIdle {
		r.Battery = math.Max(0, r.Battery-p.BatteryDrain)
	}

	switch {
	case r.NavGoal != nil:
		dx := r.NavGoal.X - r.Position.X
		dy := r.NavGoal.Y - r.Position.Y
		dist := math.Hypot(dx, dy)

		if dist < p.ArrivalRadius {
			r.NavGoal = nil
			r.Status = fleet.StatusSearching
			out = append(out, journal.Entry{
				Source:  r.ID,
				Level:   journal.LevelInfo,
				Message: fmt.Sprintf("%s reached waypoint. Starting local search.", r.Name),
			})
			break
		}

		speed := p.GroundSpeed
		if r.Kind.Aerial() {
			speed = p.AerialSpeed
		}
		angle := math.Atan2(dy, dx)
		r.Position.X += math.Cos(angle) * speed
		r.Position.Y += math.Sin(angle) * speed
		r.Position.Yaw = angle * 180 / math.Pi
		r.Status = fleet.StatusMoving

		if r.Kind.Aerial() && r.Position.Z < p.CruiseAltitude {
			r.Position.Z = math.Min(p.CruiseAltitude, r.Position.Z+p.ClimbRate)
		}

	case r.Status == fleet.StatusSearching:
		r.Position.Yaw += (rng.Float64() - 0.5) * p.YawJitter
		conf := r.DetectionConfidence + (rng.Float64()-p.SearchBias)*p.SearchStep
		r.DetectionConfidence = math.Min(1, math.Max(0, conf))

		if r.DetectionConfidence > p.DetectThreshold {
			out = append(out, journal.Entry{
				Source:  r.ID,
				Level:   journal.LevelWarn,
				Message: fmt.Sprintf("%s detected object: person [92%%]", r.Name),
			})
			r.Status = fleet.StatusIdle
			r.DetectionConfidence = 0
		}
	}

	return out
}
