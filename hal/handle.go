// Package hal implements the hardware abstraction layer for forwarding whole
// motion trajectories from a controller to a device driver that performs its
// own interpolation.
//
// The package has two halves: Handle, the read/write access object bridging
// one controller and one driver over a pair of driver-owned buffers, and
// Interface, the claim registry that hands out handles under an exclusive,
// all-or-nothing group claim.
package hal

import "fmt"

// Copyable is the minimal capability required of trajectory and feedback
// payload types: a deep copy that shares no mutable storage with the receiver.
type Copyable[T any] interface {
	Clone() T
}

// Callbacks carries the optional lifecycle hooks for a handle. A nil field
// means no notification for that event.
//
// OnNewCommand fires synchronously inside SetCommand with the freshly written
// command; drivers use it to start trajectory execution on the vendor
// controller exactly once per command. OnCancel fires inside CancelCommand;
// the body owns all cancellation semantics (halting motion, zeroing state).
// Neither hook may block: both run on the caller's cycle.
type Callbacks[C any] struct {
	OnNewCommand func(C)
	OnCancel     func()
}

// Handle provides read/write access to one trajectory group's command and
// feedback buffers. The buffers are owned by the driver layer; the handle
// only references them and must not outlive them.
//
// A handle performs no internal locking. Per-cycle access is expected to be
// serialized by the control loop's phase ordering (driver writes feedback
// before the controller reads it, and so on); concurrent unsynchronized use
// from two goroutines is not supported.
type Handle[C Copyable[C], F Copyable[F]] struct {
	name     string
	cmd      *C
	feedback *F
	onNewCmd func(C)
	onCancel func()
}

// NewHandle creates a handle bound to the given command and feedback buffers,
// with no lifecycle callbacks. Both buffer pointers are required.
func NewHandle[C Copyable[C], F Copyable[F]](name string, cmd *C, feedback *F) (*Handle[C, F], error) {
	return NewHandleWithCallbacks(name, cmd, feedback, Callbacks[C]{})
}

// NewHandleWithCallbacks creates a handle bound to the given buffers with
// optional start/cancel hooks. It fails with ErrInvalidArgument unless both
// buffer pointers are non-nil; a handle missing either buffer would be
// unusable by one of its two sides.
func NewHandleWithCallbacks[C Copyable[C], F Copyable[F]](name string, cmd *C, feedback *F, cb Callbacks[C]) (*Handle[C, F], error) {
	if cmd == nil {
		return nil, fmt.Errorf("%w: handle %q needs a command buffer", ErrInvalidArgument, name)
	}
	if feedback == nil {
		return nil, fmt.Errorf("%w: handle %q needs a feedback buffer", ErrInvalidArgument, name)
	}
	return &Handle[C, F]{
		name:     name,
		cmd:      cmd,
		feedback: feedback,
		onNewCmd: cb.OnNewCommand,
		onCancel: cb.OnCancel,
	}, nil
}

// SetCommand replaces the command buffer contents with a copy of command and
// fires the on-new-command hook, if registered, with the stored value.
func (h *Handle[C, F]) SetCommand(command C) {
	*h.cmd = command.Clone()
	if h.onNewCmd != nil {
		h.onNewCmd(*h.cmd)
	}
}

// GetCommand returns a copy of the current command buffer contents.
func (h *Handle[C, F]) GetCommand() C {
	return (*h.cmd).Clone()
}

// CancelCommand fires the cancel hook, if registered. The command buffer is
// left untouched; what cancellation means for the hardware is entirely up to
// the hook's owner. Without a registered hook this is a no-op.
func (h *Handle[C, F]) CancelCommand() {
	if h.onCancel != nil {
		h.onCancel()
	}
}

// SetFeedback replaces the feedback buffer contents with a copy of feedback.
func (h *Handle[C, F]) SetFeedback(feedback F) {
	*h.feedback = feedback.Clone()
}

// GetFeedback returns a copy of the current feedback buffer contents.
func (h *Handle[C, F]) GetFeedback() F {
	return (*h.feedback).Clone()
}

// Name returns the stable identifier this handle was registered under.
func (h *Handle[C, F]) Name() string {
	return h.name
}
