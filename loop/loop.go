// Package loop runs the fixed-period control cycle that drives hardware and
// controllers.
//
// Each cycle has three phases in a fixed order: every hardware Read (publish
// feedback), every controller Update (consume feedback, write commands), then
// every hardware Write (consume commands). The phase barrier is what
// serializes access to the hal handle buffers; neither the handles nor the
// drivers lock internally.
package loop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Hardware is the driver-side participant in the cycle.
type Hardware interface {
	Read(now time.Time, period time.Duration) error
	Write(now time.Time, period time.Duration) error
}

// Controller is the command-side participant in the cycle.
type Controller interface {
	Update(now time.Time, period time.Duration) error
}

// Runner drives registered hardware and controllers at a fixed period.
type Runner struct {
	period      time.Duration
	hardware    []Hardware
	controllers []Controller
	log         *zap.Logger
}

// NewRunner creates a runner with the given cycle period.
func NewRunner(period time.Duration, log *zap.Logger) (*Runner, error) {
	if period <= 0 {
		return nil, fmt.Errorf("cycle period must be positive, got %v", period)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		period: period,
		log:    log,
	}, nil
}

// AddHardware registers a hardware participant. Must be called before Run.
func (r *Runner) AddHardware(hw Hardware) {
	r.hardware = append(r.hardware, hw)
}

// AddController registers a controller participant. Must be called before Run.
func (r *Runner) AddController(c Controller) {
	r.controllers = append(r.controllers, c)
}

// Step executes one read/update/write cycle. Phase errors are logged and the
// cycle continues: one faulting participant must not stall the others.
func (r *Runner) Step(now time.Time) {
	for _, hw := range r.hardware {
		if err := hw.Read(now, r.period); err != nil {
			r.log.Error("hardware read phase failed", zap.Error(err))
		}
	}
	for _, c := range r.controllers {
		if err := c.Update(now, r.period); err != nil {
			r.log.Error("controller update phase failed", zap.Error(err))
		}
	}
	for _, hw := range r.hardware {
		if err := hw.Write(now, r.period); err != nil {
			r.log.Error("hardware write phase failed", zap.Error(err))
		}
	}
}

// Run cycles until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.log.Info("control loop started", zap.Duration("period", r.period))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("control loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			r.Step(now)
		}
	}
}
