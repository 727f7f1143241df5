package planner

import (
	"fmt"

	"sarlink/internal/fleet"
)

// Tunnel is the operating area: X in [0, Length], Y in [-Width/2, Width/2].
type Tunnel struct {
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
}

func DefaultTunnel() Tunnel {
	return Tunnel{Length: 100, Width: 10}
}

const (
	minAerialAltitude = 1.0
	lowBattery        = 20.0
)

// Review returns advisory warnings for the operator. It never changes the plan.
func Review(plan *Plan, robots []fleet.Robot, tunnel Tunnel) []string {
	if plan == nil {
		return nil
	}
	byName := make(map[string]fleet.Robot, len(robots))
	for _, r := range robots {
		byName[r.Name] = r
	}

	var warnings []string
	for i, t := range plan.Tasks {
		n := i + 1
		r, ok := byName[t.AssignedTo]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("task %d: %q is not in the fleet and will be skipped", n, t.AssignedTo))
			continue
		}
		if r.Battery < lowBattery {
			warnings = append(warnings, fmt.Sprintf("task %d: %s battery at %.0f%%", n, r.Name, r.Battery))
		}
		c := t.TargetCoordinates
		if c == nil {
			continue
		}
		if tunnel.Length > 0 && (c.X < 0 || c.X > tunnel.Length) {
			warnings = append(warnings, fmt.Sprintf("task %d: target x=%.1f is outside the tunnel (0..%.0f m)", n, c.X, tunnel.Length))
		}
		if half := tunnel.Width / 2; tunnel.Width > 0 && (c.Y < -half || c.Y > half) {
			warnings = append(warnings, fmt.Sprintf("task %d: target y=%.1f is outside the tunnel walls (±%.1f m)", n, c.Y, half))
		}
		if r.Kind.Aerial() && c.Z < minAerialAltitude {
			warnings = append(warnings, fmt.Sprintf("task %d: UAV target altitude %.1f m is below %.0f m", n, c.Z, minAerialAltitude))
		}
	}
	return warnings
}
