// Package driver provides device-driver implementations that own trajectory
// buffer storage and serve it to controllers through hal handles.
//
// Drivers are the downstream side of the pass-through contract: they create
// one handle per trajectory group at initialization, implement the start and
// cancel hooks that talk to the physical hardware, and during each control
// cycle read the command buffer and write execution feedback.
package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"trajflow/hal"
	"trajflow/msgs"
	"trajflow/serialport"
)

// Robot forwards joint trajectories to a vendor robot controller over a
// serial line. New commands and cancels are framed and sent from inside the
// handle's hooks, synchronously with the controller's write; feedback frames
// are drained from the port during the cyclic read phase.
type Robot struct {
	name   string
	joints []string
	port   serialport.Port
	log    *zap.Logger

	// Buffer storage referenced by the handle. Must stay alive as long as
	// the handle does.
	cmd msgs.JointTrajectory
	fb  msgs.JointFeedback

	handle  *hal.JointTrajectoryHandle
	dec     Decoder
	readBuf [512]byte

	// Last transport error from a hook, surfaced on the next write phase.
	sendErr error
}

// NewRobot creates a driver for the named trajectory group spanning the
// given joints, speaking over port.
func NewRobot(name string, joints []string, port serialport.Port, log *zap.Logger) (*Robot, error) {
	if len(joints) == 0 {
		return nil, fmt.Errorf("robot driver %q needs at least one joint", name)
	}
	if port == nil {
		return nil, fmt.Errorf("robot driver %q needs a serial port", name)
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Robot{
		name:   name,
		joints: append([]string(nil), joints...),
		port:   port,
		log:    log,
	}
	d.fb.JointNames = append([]string(nil), joints...)

	handle, err := hal.NewHandleWithCallbacks(name, &d.cmd, &d.fb, hal.JointTrajectoryCallbacks{
		OnNewCommand: d.sendStart,
		OnCancel:     d.sendCancel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating handle for %q: %w", name, err)
	}
	d.handle = handle
	return d, nil
}

// Register adds the driver's handle to iface.
func (d *Robot) Register(iface *hal.JointTrajectoryInterface) error {
	return iface.RegisterHandle(d.handle)
}

// Handle returns the driver's trajectory handle.
func (d *Robot) Handle() *hal.JointTrajectoryHandle {
	return d.handle
}

// Joints returns the physical resource names this driver's group spans.
func (d *Robot) Joints() []string {
	return append([]string(nil), d.joints...)
}

// Read drains feedback frames from the serial port and publishes the most
// recent one through the handle.
func (d *Robot) Read(now time.Time, period time.Duration) error {
	for {
		n, err := d.port.Read(d.readBuf[:])
		if n > 0 {
			d.dec.Feed(d.readBuf[:n])
		}
		if err != nil {
			// Serial read timeouts surface as io.EOF; an idle line is
			// not a fault.
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading from robot controller: %w", err)
		}
		if n == 0 {
			break
		}
	}

	for {
		frame, ok := d.dec.Next()
		if !ok {
			break
		}
		if frame.Type != FrameFeedback {
			d.log.Warn("unexpected frame from robot controller",
				zap.Uint8("type", uint8(frame.Type)))
			continue
		}

		var fb msgs.JointFeedback
		if err := json.Unmarshal(frame.Payload, &fb); err != nil {
			d.log.Warn("dropping malformed feedback frame", zap.Error(err))
			continue
		}
		d.handle.SetFeedback(fb)
	}
	return nil
}

// Write surfaces any transport error raised by the start/cancel hooks since
// the last cycle, so command-forwarding failures reach the control loop.
func (d *Robot) Write(now time.Time, period time.Duration) error {
	if err := d.sendErr; err != nil {
		d.sendErr = nil
		return err
	}
	return nil
}

// Close closes the serial port.
func (d *Robot) Close() error {
	return d.port.Close()
}

func (d *Robot) sendStart(traj msgs.JointTrajectory) {
	payload, err := json.Marshal(traj)
	if err != nil {
		d.sendErr = fmt.Errorf("encoding trajectory: %w", err)
		return
	}
	if err := d.sendFrame(FrameStart, payload); err != nil {
		d.sendErr = err
		return
	}
	d.log.Info("trajectory forwarded to robot controller",
		zap.String("group", d.name),
		zap.Int("points", len(traj.Points)))
}

func (d *Robot) sendCancel() {
	if err := d.sendFrame(FrameCancel, nil); err != nil {
		d.sendErr = err
		return
	}
	d.log.Info("cancel forwarded to robot controller", zap.String("group", d.name))
}

func (d *Robot) sendFrame(ft FrameType, payload []byte) error {
	frame, err := EncodeFrame(ft, payload)
	if err != nil {
		return err
	}
	if _, err := d.port.Write(frame); err != nil {
		return fmt.Errorf("writing to robot controller: %w", err)
	}
	return nil
}
