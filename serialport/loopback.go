package serialport

import (
	"bytes"
	"fmt"
	"sync"
)

// Loopback is an in-memory Port for tests. Data written by the driver lands
// in the outgoing buffer for inspection; tests queue incoming bytes to be
// returned by Read. Reads never block: an empty buffer reads 0 bytes, like a
// native port hitting its timeout.
type Loopback struct {
	mu       sync.Mutex
	incoming bytes.Buffer
	outgoing bytes.Buffer
	closed   bool
}

// NewLoopback creates an open loopback port.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Read pops queued incoming bytes.
func (l *Loopback) Read(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, fmt.Errorf("port is closed")
	}
	if l.incoming.Len() == 0 {
		return 0, nil
	}
	return l.incoming.Read(b)
}

// Write appends to the outgoing buffer.
func (l *Loopback) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, fmt.Errorf("port is closed")
	}
	return l.outgoing.Write(b)
}

// Close marks the port closed; subsequent reads and writes fail.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// QueueIncoming makes data available to the next Read calls.
func (l *Loopback) QueueIncoming(data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.incoming.Write(data)
}

// Outgoing drains and returns everything written to the port so far.
func (l *Loopback) Outgoing() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]byte, l.outgoing.Len())
	l.outgoing.Read(out)
	return out
}
