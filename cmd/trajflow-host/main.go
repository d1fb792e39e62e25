// Command trajflow-host runs a pass-through trajectory host: a device driver
// (simulated, or a vendor robot controller over serial), a pass-through
// controller claiming the driver's joint group, and the control loop cycling
// them. Trajectories are forwarded and canceled interactively from stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trajflow/config"
	"trajflow/controller"
	"trajflow/driver"
	"trajflow/hal"
	"trajflow/loop"
	"trajflow/msgs"
	"trajflow/serialport"
)

// trajectoryDriver is what main needs from either driver implementation.
type trajectoryDriver interface {
	loop.Hardware
	Register(*hal.JointTrajectoryInterface) error
	Joints() []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	drv, cleanup, err := buildDriver(cfg, log)
	if err != nil {
		log.Fatal("driver setup failed", zap.Error(err))
	}
	defer cleanup()

	iface := hal.NewJointTrajectoryInterface()
	if err := drv.Register(iface); err != nil {
		log.Fatal("handle registration failed", zap.Error(err))
	}

	ctrl := controller.New(cfg.Group, iface, drv.Joints(), log)
	if err := ctrl.Activate(); err != nil {
		log.Fatal("controller activation failed", zap.Error(err))
	}

	runner, err := loop.NewRunner(cfg.Period, log)
	if err != nil {
		log.Fatal("control loop setup failed", zap.Error(err))
	}
	runner.AddHardware(drv)
	runner.AddController(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- runner.Run(ctx) }()
	defer shutdown(ctrl, cancel, loopDone, cfg.Period)

	fmt.Printf("trajflow host ready (group %q, joints %v)\n", cfg.Group, drv.Joints())
	fmt.Println("Commands: demo, cancel, status, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "":
			continue

		case "quit", "exit", "q":
			return

		case "demo":
			if err := ctrl.Forward(demoTrajectory(drv.Joints())); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Println("demo trajectory forwarded")
			}

		case "cancel":
			if err := ctrl.Cancel(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Println("cancel requested")
			}

		case "status":
			printStatus(ctrl)

		default:
			fmt.Println("Unknown command (demo, cancel, status, quit)")
		}
	}
}

// shutdown deactivates the controller through the still-running loop (the
// cancel hook may only fire inside the update phase), waits for the claim to
// be released, then stops the loop and waits for it to exit before the
// driver is torn down.
func shutdown(ctrl *controller.PassThrough[msgs.JointTrajectory, msgs.JointFeedback], cancel context.CancelFunc, loopDone <-chan error, period time.Duration) {
	ctrl.Deactivate()

	deadline := time.After(time.Second)
wait:
	for ctrl.HoldsClaim() {
		select {
		case <-deadline:
			break wait
		case <-time.After(period):
		}
	}

	cancel()
	<-loopDone
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func buildDriver(cfg *config.Config, log *zap.Logger) (trajectoryDriver, func(), error) {
	if cfg.Simulated() {
		log.Info("using simulated robot driver")
		drv, err := driver.NewSim(cfg.Group, cfg.Joints, log)
		if err != nil {
			return nil, nil, err
		}
		return drv, func() {}, nil
	}

	portCfg := serialport.DefaultConfig(cfg.Device)
	portCfg.Baud = cfg.Baud
	port, err := serialport.Open(portCfg)
	if err != nil {
		return nil, nil, err
	}

	log.Info("connected to robot controller",
		zap.String("device", cfg.Device),
		zap.Int("baud", cfg.Baud))

	drv, err := driver.NewRobot(cfg.Group, cfg.Joints, port, log)
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return drv, func() { drv.Close() }, nil
}

// demoTrajectory builds a short sinusoidal sweep across all joints.
func demoTrajectory(joints []string) msgs.JointTrajectory {
	const steps = 20
	traj := msgs.JointTrajectory{
		JointNames: joints,
		Points:     make([]msgs.JointTrajectoryPoint, steps),
	}

	for i := 0; i < steps; i++ {
		phase := float64(i+1) / steps
		positions := make([]float64, len(joints))
		for j := range positions {
			positions[j] = 0.5 * math.Sin(2*math.Pi*phase+float64(j))
		}
		traj.Points[i] = msgs.JointTrajectoryPoint{
			Positions:     positions,
			TimeFromStart: time.Duration(i+1) * 250 * time.Millisecond,
		}
	}
	return traj
}

func printStatus(ctrl *controller.PassThrough[msgs.JointTrajectory, msgs.JointFeedback]) {
	fb, err := ctrl.Feedback()
	if err != nil {
		fmt.Printf("no feedback available: %v\n", err)
		return
	}
	fmt.Printf("feedback at %v:\n", fb.Actual.TimeFromStart)
	for i, name := range fb.JointNames {
		if i < len(fb.Actual.Positions) {
			fmt.Printf("  %-12s %8.4f\n", name, fb.Actual.Positions[i])
		}
	}
}
