package hal

import "trajflow/msgs"

// Named instantiations for the two trajectory variants. Drivers and
// controllers use these instead of spelling out the type parameters.

// JointTrajectoryHandle bridges a joint-space pass-through controller and its
// device driver.
type JointTrajectoryHandle = Handle[msgs.JointTrajectory, msgs.JointFeedback]

// CartesianTrajectoryHandle bridges a Cartesian pass-through controller and
// its device driver.
type CartesianTrajectoryHandle = Handle[msgs.CartesianTrajectory, msgs.CartesianFeedback]

// JointTrajectoryInterface registers and claims joint trajectory handles.
type JointTrajectoryInterface = Interface[msgs.JointTrajectory, msgs.JointFeedback]

// CartesianTrajectoryInterface registers and claims Cartesian trajectory
// handles.
type CartesianTrajectoryInterface = Interface[msgs.CartesianTrajectory, msgs.CartesianFeedback]

// JointTrajectoryCallbacks carries the lifecycle hooks of a joint handle.
type JointTrajectoryCallbacks = Callbacks[msgs.JointTrajectory]

// CartesianTrajectoryCallbacks carries the lifecycle hooks of a Cartesian
// handle.
type CartesianTrajectoryCallbacks = Callbacks[msgs.CartesianTrajectory]

// NewJointTrajectoryInterface creates an interface for joint trajectory
// handles with its own claim table.
func NewJointTrajectoryInterface() *JointTrajectoryInterface {
	return NewInterface[msgs.JointTrajectory, msgs.JointFeedback]()
}

// NewCartesianTrajectoryInterface creates an interface for Cartesian
// trajectory handles with its own claim table.
func NewCartesianTrajectoryInterface() *CartesianTrajectoryInterface {
	return NewInterface[msgs.CartesianTrajectory, msgs.CartesianFeedback]()
}
