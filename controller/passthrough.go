// Package controller implements pass-through trajectory controllers: the
// upstream side of the hal contract, which claims a resource group, forwards
// whole trajectories to the device driver for interpolation, and relays
// execution feedback.
package controller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"trajflow/hal"
)

// ErrInactive reports an operation that needs an active claim on a
// controller that is not activated.
var ErrInactive = errors.New("controller is not active")

// PassThrough forwards trajectories through a claimed handle.
//
// Goals, cancels and deactivation may arrive from any goroutine (Forward,
// Cancel, Deactivate); they are buffered and applied to the handle during
// Update, which the control loop invokes in its update phase. That keeps all
// handle access serialized by the loop's phase ordering, as the hal contract
// requires — no lifecycle path touches the handle from the caller's
// goroutine.
type PassThrough[C hal.Copyable[C], F hal.Copyable[F]] struct {
	name      string
	iface     *hal.Interface[C, F]
	resources []string
	log       *zap.Logger

	mu            sync.Mutex
	claim         *hal.Claim[C, F]
	pending       *C
	cancelPending bool
	deactivating  bool
	feedback      F
	haveFeedback  bool
}

// New creates a pass-through controller for the handle registered under name,
// claiming the given resource names as a group on activation.
func New[C hal.Copyable[C], F hal.Copyable[F]](name string, iface *hal.Interface[C, F], resources []string, log *zap.Logger) *PassThrough[C, F] {
	if log == nil {
		log = zap.NewNop()
	}
	return &PassThrough[C, F]{
		name:      name,
		iface:     iface,
		resources: append([]string(nil), resources...),
		log:       log,
	}
}

// Activate claims the controller's resource group. On conflict the
// activation fails cleanly: no resource is held afterward and another
// consumer may claim the group.
func (c *PassThrough[C, F]) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claim != nil {
		return fmt.Errorf("%w: already active", hal.ErrInvalidArgument)
	}

	c.iface.SetResources(c.resources)
	claim, err := c.iface.Claim(c.name)
	if err != nil {
		return fmt.Errorf("activating controller %q: %w", c.name, err)
	}
	c.claim = claim

	c.log.Info("controller activated",
		zap.String("controller", c.name),
		zap.Strings("resources", c.resources),
		zap.String("claim", claim.ID()))
	return nil
}

// Deactivate requests deactivation: the next update cycle cancels any active
// command through the handle and releases the claim. Like Forward and Cancel,
// the handle is only touched from the update phase, so Deactivate is safe to
// call while the control loop is mid-cycle. The controller stops accepting
// goals immediately; the resources are free once the update has run. Safe to
// call on an inactive controller.
func (c *PassThrough[C, F]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claim == nil || c.deactivating {
		return
	}
	c.deactivating = true
	c.pending = nil
	c.cancelPending = false

	c.log.Info("controller deactivation requested", zap.String("controller", c.name))
}

// Active reports whether the controller holds its claim and is accepting
// goals. It turns false as soon as deactivation is requested, though the
// resources are only released when the next update cycle applies it.
func (c *PassThrough[C, F]) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claim != nil && !c.deactivating
}

// HoldsClaim reports whether the controller still holds its resource claim.
// After Deactivate it stays true until the update cycle that releases the
// claim has run; shutdown sequences wait on it before stopping the loop.
func (c *PassThrough[C, F]) HoldsClaim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claim != nil
}

// Forward queues a trajectory goal to be written to the handle on the next
// update cycle. A queued goal that has not been applied yet is replaced.
func (c *PassThrough[C, F]) Forward(goal C) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claim == nil || c.deactivating {
		return fmt.Errorf("forwarding trajectory: %w", ErrInactive)
	}
	g := goal.Clone()
	c.pending = &g
	return nil
}

// Cancel queues a cancel request, delivered through the handle on the next
// update cycle. It also drops any not-yet-applied goal.
func (c *PassThrough[C, F]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claim == nil || c.deactivating {
		return fmt.Errorf("canceling trajectory: %w", ErrInactive)
	}
	c.cancelPending = true
	c.pending = nil
	return nil
}

// Feedback returns the execution feedback captured on the most recent update
// cycle.
func (c *PassThrough[C, F]) Feedback() (F, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero F
	if c.claim == nil || c.deactivating {
		return zero, fmt.Errorf("reading feedback: %w", ErrInactive)
	}
	if !c.haveFeedback {
		return zero, fmt.Errorf("reading feedback: no update cycle has run")
	}
	return c.feedback.Clone(), nil
}

// Update runs one controller cycle: it completes a requested deactivation,
// delivers a queued cancel, applies a queued goal, and captures current
// feedback. The control loop calls it between the driver's read and write
// phases.
func (c *PassThrough[C, F]) Update(now time.Time, period time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claim == nil {
		return nil
	}
	h := c.claim.Handle()

	if c.deactivating {
		h.CancelCommand()
		c.claim.Release()
		c.claim = nil
		c.deactivating = false
		c.log.Info("controller deactivated", zap.String("controller", c.name))
		return nil
	}

	if c.cancelPending {
		h.CancelCommand()
		c.cancelPending = false
		c.log.Info("cancel delivered", zap.String("controller", c.name))
	}
	if c.pending != nil {
		h.SetCommand(*c.pending)
		c.pending = nil
	}

	c.feedback = h.GetFeedback()
	c.haveFeedback = true
	return nil
}
