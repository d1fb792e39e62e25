package msgs

import "time"

// Vector3 is a 3D vector in meters (or meters/second for twists).
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation in quaternion form.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Pose is a Cartesian position and orientation.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// Twist is a Cartesian velocity (linear and angular components).
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// CartesianTrajectoryPoint is one setpoint of a Cartesian trajectory.
type CartesianTrajectoryPoint struct {
	Pose          Pose          `json:"pose"`
	Twist         Twist         `json:"twist"`
	Acceleration  Twist         `json:"acceleration"`
	TimeFromStart time.Duration `json:"time_from_start"`
}

// Clone returns a copy of the point. All fields are plain values, so the
// shallow copy is already deep.
func (p CartesianTrajectoryPoint) Clone() CartesianTrajectoryPoint {
	return p
}

// CartesianTrajectory is a full Cartesian-space motion plan for one end
// effector, handed off as one unit for device-side interpolation.
type CartesianTrajectory struct {
	ControlledFrame string                     `json:"controlled_frame,omitempty"`
	Points          []CartesianTrajectoryPoint `json:"points"`
}

// Clone returns a deep copy of the trajectory.
func (t CartesianTrajectory) Clone() CartesianTrajectory {
	out := CartesianTrajectory{ControlledFrame: t.ControlledFrame}
	if t.Points != nil {
		out.Points = make([]CartesianTrajectoryPoint, len(t.Points))
		copy(out.Points, t.Points)
	}
	return out
}

// Empty reports whether the trajectory carries no points.
func (t CartesianTrajectory) Empty() bool {
	return len(t.Points) == 0
}

// CartesianFeedback reports Cartesian trajectory execution progress.
type CartesianFeedback struct {
	ControlledFrame string                   `json:"controlled_frame,omitempty"`
	Desired         CartesianTrajectoryPoint `json:"desired"`
	Actual          CartesianTrajectoryPoint `json:"actual"`
	Error           CartesianTrajectoryPoint `json:"error"`
}

// Clone returns a copy of the feedback.
func (f CartesianFeedback) Clone() CartesianFeedback {
	return f
}
