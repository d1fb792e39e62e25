package msgs

import (
	"testing"
	"time"
)

func TestJointTrajectoryCloneIsDeep(t *testing.T) {
	orig := JointTrajectory{
		JointNames: []string{"joint1", "joint2"},
		Points: []JointTrajectoryPoint{
			{
				Positions:     []float64{1.0, 2.0},
				Velocities:    []float64{0.1, 0.2},
				TimeFromStart: 500 * time.Millisecond,
			},
		},
	}

	c := orig.Clone()
	c.JointNames[0] = "changed"
	c.Points[0].Positions[0] = 99.0
	c.Points[0].Velocities[1] = 99.0

	if orig.JointNames[0] != "joint1" {
		t.Errorf("clone shares JointNames storage: %q", orig.JointNames[0])
	}
	if orig.Points[0].Positions[0] != 1.0 {
		t.Errorf("clone shares Positions storage: %f", orig.Points[0].Positions[0])
	}
	if orig.Points[0].Velocities[1] != 0.2 {
		t.Errorf("clone shares Velocities storage: %f", orig.Points[0].Velocities[1])
	}
}

func TestJointTrajectoryCloneNilSlices(t *testing.T) {
	var orig JointTrajectory
	c := orig.Clone()

	if c.JointNames != nil || c.Points != nil {
		t.Errorf("clone of zero trajectory materialized slices: %+v", c)
	}
	if !c.Empty() {
		t.Error("zero trajectory should be empty")
	}
}

func TestJointFeedbackCloneIsDeep(t *testing.T) {
	orig := JointFeedback{
		JointNames: []string{"joint1"},
		Actual:     JointTrajectoryPoint{Positions: []float64{3.0}},
		Error:      JointTrajectoryPoint{Positions: []float64{0.5}},
	}

	c := orig.Clone()
	c.Actual.Positions[0] = -1.0
	c.Error.Positions[0] = -1.0

	if orig.Actual.Positions[0] != 3.0 {
		t.Errorf("clone shares Actual storage: %f", orig.Actual.Positions[0])
	}
	if orig.Error.Positions[0] != 0.5 {
		t.Errorf("clone shares Error storage: %f", orig.Error.Positions[0])
	}
}

func TestCartesianTrajectoryCloneIsDeep(t *testing.T) {
	orig := CartesianTrajectory{
		ControlledFrame: "tool0",
		Points: []CartesianTrajectoryPoint{
			{
				Pose:          Pose{Position: Vector3{X: 1.0}},
				TimeFromStart: time.Second,
			},
		},
	}

	c := orig.Clone()
	c.Points[0].Pose.Position.X = 42.0

	if orig.Points[0].Pose.Position.X != 1.0 {
		t.Errorf("clone shares Points storage: %f", orig.Points[0].Pose.Position.X)
	}
	if c.ControlledFrame != "tool0" {
		t.Errorf("clone lost frame: %q", c.ControlledFrame)
	}
}
