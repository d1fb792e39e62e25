package driver

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"trajflow/hal"
	"trajflow/msgs"
)

// Sim is a simulated robot driver. It executes forwarded trajectories by
// stepping through their points against accumulated cycle time, publishing
// desired/actual/error feedback each read phase. The simulated joints track
// the desired point exactly.
//
// The device-side walk through the points stands in for the interpolation a
// real vendor controller would perform.
type Sim struct {
	name   string
	joints []string
	log    *zap.Logger

	// Buffer storage referenced by the handle.
	cmd msgs.JointTrajectory
	fb  msgs.JointFeedback

	handle *hal.JointTrajectoryHandle

	executing bool
	elapsed   time.Duration
	actual    []float64 // current joint positions, held across trajectories
}

// NewSim creates a simulated driver for the named trajectory group spanning
// the given joints. All joints start at position zero.
func NewSim(name string, joints []string, log *zap.Logger) (*Sim, error) {
	if len(joints) == 0 {
		return nil, fmt.Errorf("sim driver %q needs at least one joint", name)
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Sim{
		name:   name,
		joints: append([]string(nil), joints...),
		log:    log,
		actual: make([]float64, len(joints)),
	}
	d.fb.JointNames = append([]string(nil), joints...)

	handle, err := hal.NewHandleWithCallbacks(name, &d.cmd, &d.fb, hal.JointTrajectoryCallbacks{
		OnNewCommand: d.onStart,
		OnCancel:     d.onCancel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating handle for %q: %w", name, err)
	}
	d.handle = handle
	return d, nil
}

// Register adds the driver's handle to iface.
func (d *Sim) Register(iface *hal.JointTrajectoryInterface) error {
	return iface.RegisterHandle(d.handle)
}

// Handle returns the driver's trajectory handle.
func (d *Sim) Handle() *hal.JointTrajectoryHandle {
	return d.handle
}

// Joints returns the physical resource names this driver's group spans.
func (d *Sim) Joints() []string {
	return append([]string(nil), d.joints...)
}

// Executing reports whether a trajectory is currently being executed.
func (d *Sim) Executing() bool {
	return d.executing
}

// Read advances the simulated execution by one cycle and publishes feedback.
func (d *Sim) Read(now time.Time, period time.Duration) error {
	if d.executing {
		d.elapsed += period
		traj := d.handle.GetCommand()

		desired := samplePoint(traj, d.elapsed)
		copy(d.actual, desired.Positions)

		if done(traj, d.elapsed) {
			d.executing = false
			d.log.Info("trajectory execution complete",
				zap.String("group", d.name),
				zap.Duration("elapsed", d.elapsed))
		}
	}

	fb := msgs.JointFeedback{
		JointNames: d.joints,
		Desired:    msgs.JointTrajectoryPoint{Positions: d.actual, TimeFromStart: d.elapsed},
		Actual:     msgs.JointTrajectoryPoint{Positions: d.actual, TimeFromStart: d.elapsed},
		Error:      msgs.JointTrajectoryPoint{Positions: make([]float64, len(d.joints))},
	}
	d.handle.SetFeedback(fb)
	return nil
}

// Write is a no-op: new commands reach the simulator through the handle's
// on-new-command hook, synchronously with the controller's write.
func (d *Sim) Write(now time.Time, period time.Duration) error {
	return nil
}

func (d *Sim) onStart(traj msgs.JointTrajectory) {
	if traj.Empty() {
		d.executing = false
		return
	}
	d.executing = true
	d.elapsed = 0
	d.log.Info("trajectory execution started",
		zap.String("group", d.name),
		zap.Int("points", len(traj.Points)))
}

func (d *Sim) onCancel() {
	if !d.executing {
		return
	}
	d.executing = false
	d.log.Info("trajectory execution canceled",
		zap.String("group", d.name),
		zap.Duration("elapsed", d.elapsed))
}

// samplePoint returns the trajectory point active at the given elapsed time
// (sample-and-hold: the first point whose time-from-start has not yet
// passed, or the last point after the end).
func samplePoint(traj msgs.JointTrajectory, elapsed time.Duration) msgs.JointTrajectoryPoint {
	for _, p := range traj.Points {
		if elapsed <= p.TimeFromStart {
			return p
		}
	}
	return traj.Points[len(traj.Points)-1]
}

// done reports whether elapsed has passed the trajectory's final point.
func done(traj msgs.JointTrajectory, elapsed time.Duration) bool {
	return elapsed >= traj.Points[len(traj.Points)-1].TimeFromStart
}
