package fleet

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownRobot = errors.New("unknown robot")

// Store holds the authoritative robot records. All mutation goes through
// Update or Each, which serialize against each other.
type Store struct {
	mu     sync.RWMutex
	robots []*Robot
	byID   map[string]*Robot
}

// NewStore copies robots into a new store. Duplicate ids are rejected.
func NewStore(robots []Robot) (*Store, error) {
	s := &Store{byID: make(map[string]*Robot, len(robots))}
	for _, r := range robots {
		if r.ID == "" {
			return nil, fmt.Errorf("robot %q has no id", r.Name)
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate robot id %q", r.ID)
		}
		rc := r.Clone()
		rc.Battery = clamp(rc.Battery, 0, 100)
		rc.DetectionConfidence = clamp(rc.DetectionConfidence, 0, 1)
		s.robots = append(s.robots, &rc)
		s.byID[rc.ID] = &rc
	}
	return s, nil
}

// Snapshot returns deep copies in declaration order.
func (s *Store) Snapshot() []Robot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Robot, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.Clone()
	}
	return out
}

func (s *Store) Get(id string) (Robot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return Robot{}, false
	}
	return r.Clone(), true
}

// ByName resolves an exact display-name match.
func (s *Store) ByName(name string) (Robot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.robots {
		if r.Name == name {
			return r.Clone(), true
		}
	}
	return Robot{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.robots)
}

// Update mutates the robot with the given id.
func (s *Store) Update(id string, fn func(r *Robot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRobot, id)
	}
	fn(r)
	normalize(r)
	return nil
}

// Each mutates every robot in declaration order under a single lock.
func (s *Store) Each(fn func(r *Robot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.robots {
		fn(r)
		normalize(r)
	}
}

// Batch runs fn with exclusive access to the whole fleet. lookup resolves
// display names; the returned pointer is only valid inside fn.
func (s *Store) Batch(fn func(lookup func(name string) *Robot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	touched := make(map[*Robot]struct{})
	fn(func(name string) *Robot {
		for _, r := range s.robots {
			if r.Name == name {
				touched[r] = struct{}{}
				return r
			}
		}
		return nil
	})
	for r := range touched {
		normalize(r)
	}
}

func normalize(r *Robot) {
	r.Battery = clamp(r.Battery, 0, 100)
	r.DetectionConfidence = clamp(r.DetectionConfidence, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
