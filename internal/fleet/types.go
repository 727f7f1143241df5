package fleet

import "fmt"

type Kind string

const (
	KindGround Kind = "GO2"
	KindAerial Kind = "UAV"
)

type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusPlanning  Status = "PLANNING"
	StatusMoving    Status = "MOVING"
	StatusSearching Status = "SEARCHING"
	StatusError     Status = "ERROR"
	StatusReturning Status = "RETURNING"
)

// Position is tunnel-relative: X along the tunnel, Y lateral, Z altitude, Yaw in degrees.
type Position struct {
	X   float64 `json:"x" yaml:"x"`
	Y   float64 `json:"y" yaml:"y"`
	Z   float64 `json:"z" yaml:"z"`
	Yaw float64 `json:"yaw" yaml:"yaw"`
}

type Sensors struct {
	Camera bool `json:"camera" yaml:"camera"`
	Lidar  bool `json:"lidar" yaml:"lidar"`
	IMU    bool `json:"imu" yaml:"imu"`
}

type Robot struct {
	ID                  string    `json:"id" yaml:"id"`
	Name                string    `json:"name" yaml:"name"`
	Kind                Kind      `json:"type" yaml:"type"`
	Status              Status    `json:"status" yaml:"status"`
	Position            Position  `json:"position" yaml:"position"`
	Home                Position  `json:"home" yaml:"home"`
	Battery             float64   `json:"battery" yaml:"battery"`
	CurrentTask         string    `json:"currentTask,omitempty" yaml:"current_task,omitempty"`
	NavGoal             *Position `json:"navGoal,omitempty" yaml:"nav_goal,omitempty"`
	DetectionConfidence float64   `json:"detectionConfidence" yaml:"detection_confidence"`
	Sensors             Sensors   `json:"sensors" yaml:"sensors"`
}

// Clone returns a copy that shares no pointers with r.
func (r Robot) Clone() Robot {
	if r.NavGoal != nil {
		g := *r.NavGoal
		r.NavGoal = &g
	}
	return r
}

// Summary is the one-line context handed to the planner.
func (r Robot) Summary() string {
	return fmt.Sprintf("%s (%s): Status=%s, Battery=%.0f%%, Position=(%.1f, %.1f, %.1f)",
		r.Name, r.Kind, r.Status, r.Battery, r.Position.X, r.Position.Y, r.Position.Z)
}

func (k Kind) Aerial() bool { return k == KindAerial }

// DefaultFleet is the tunnel scenario: one quadruped and one landed drone.
func DefaultFleet() []Robot {
	return []Robot{
		{
			ID:       "go2_01",
			Name:     "Go2-Alpha",
			Kind:     KindGround,
			Status:   StatusIdle,
			Position: Position{X: 5, Y: 2, Z: 0.2},
			Home:     Position{X: 5, Y: 2, Z: 0.2},
			Battery:  88,
			Sensors:  Sensors{Camera: true, Lidar: true, IMU: true},
		},
		{
			ID:       "uav_01",
			Name:     "Sky-Eye-1",
			Kind:     KindAerial,
			Status:   StatusIdle,
			Position: Position{X: 2, Y: -1, Z: 0},
			Home:     Position{X: 2, Y: -1, Z: 0},
			Battery:  95,
			Sensors:  Sensors{Camera: true, IMU: true},
		},
	}
}
