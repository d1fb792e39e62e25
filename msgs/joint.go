// Package msgs defines the trajectory and feedback payload types exchanged
// between pass-through controllers and device drivers.
//
// All types are plain values with deep Clone methods so that handles can copy
// them in and out of driver-owned buffers without sharing slice storage
// between the producer and consumer sides.
package msgs

import "time"

// JointTrajectoryPoint is one setpoint of a joint-space trajectory.
// Slices are indexed in the same order as the owning trajectory's JointNames.
type JointTrajectoryPoint struct {
	Positions     []float64     `json:"positions"`
	Velocities    []float64     `json:"velocities,omitempty"`
	Accelerations []float64     `json:"accelerations,omitempty"`
	TimeFromStart time.Duration `json:"time_from_start"`
}

// Clone returns a deep copy of the point.
func (p JointTrajectoryPoint) Clone() JointTrajectoryPoint {
	return JointTrajectoryPoint{
		Positions:     cloneFloats(p.Positions),
		Velocities:    cloneFloats(p.Velocities),
		Accelerations: cloneFloats(p.Accelerations),
		TimeFromStart: p.TimeFromStart,
	}
}

// JointTrajectory is a full joint-space motion plan, handed off as one unit
// for device-side interpolation.
type JointTrajectory struct {
	JointNames []string               `json:"joint_names"`
	Points     []JointTrajectoryPoint `json:"points"`
}

// Clone returns a deep copy of the trajectory.
func (t JointTrajectory) Clone() JointTrajectory {
	out := JointTrajectory{}
	if t.JointNames != nil {
		out.JointNames = make([]string, len(t.JointNames))
		copy(out.JointNames, t.JointNames)
	}
	if t.Points != nil {
		out.Points = make([]JointTrajectoryPoint, len(t.Points))
		for i, p := range t.Points {
			out.Points[i] = p.Clone()
		}
	}
	return out
}

// Empty reports whether the trajectory carries no points.
func (t JointTrajectory) Empty() bool {
	return len(t.Points) == 0
}

// JointFeedback reports trajectory execution progress for a joint group.
type JointFeedback struct {
	JointNames []string             `json:"joint_names"`
	Desired    JointTrajectoryPoint `json:"desired"`
	Actual     JointTrajectoryPoint `json:"actual"`
	Error      JointTrajectoryPoint `json:"error"`
}

// Clone returns a deep copy of the feedback.
func (f JointFeedback) Clone() JointFeedback {
	out := JointFeedback{
		Desired: f.Desired.Clone(),
		Actual:  f.Actual.Clone(),
		Error:   f.Error.Clone(),
	}
	if f.JointNames != nil {
		out.JointNames = make([]string, len(f.JointNames))
		copy(out.JointNames, f.JointNames)
	}
	return out
}

func cloneFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
