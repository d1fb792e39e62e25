// Package serialport abstracts the serial line between the trajectory driver
// and a vendor robot controller.
//
// The Port interface allows different implementations: a native port backed
// by github.com/tarm/serial, or an in-memory Loopback for tests.
package serialport

import "io"

// Port represents a serial connection to a robot controller.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate
	Baud int

	// Read timeout in milliseconds. Must be non-zero: the driver polls the
	// port during its cyclic read phase and cannot block the control loop.
	ReadTimeout int
}

// DefaultConfig returns a configuration suitable for common robot
// controller serial links.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 5, // keep reads well under a control cycle
	}
}
