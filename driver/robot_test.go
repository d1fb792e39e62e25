package driver

import (
	"encoding/json"
	"testing"
	"time"

	"trajflow/msgs"
	"trajflow/serialport"
)

func TestRobotForwardsTrajectoryOnWrite(t *testing.T) {
	port := serialport.NewLoopback()
	d, err := NewRobot("arm", []string{"joint1", "joint2"}, port, nil)
	if err != nil {
		t.Fatalf("NewRobot failed: %v", err)
	}

	traj := msgs.JointTrajectory{
		JointNames: []string{"joint1", "joint2"},
		Points: []msgs.JointTrajectoryPoint{
			{Positions: []float64{1.5, -0.5}, TimeFromStart: time.Second},
		},
	}
	d.Handle().SetCommand(traj)

	var dec Decoder
	dec.Feed(port.Outgoing())
	frame, ok := dec.Next()
	if !ok {
		t.Fatal("expected a start frame on the wire")
	}
	if frame.Type != FrameStart {
		t.Fatalf("expected FrameStart, got %d", frame.Type)
	}

	var sent msgs.JointTrajectory
	if err := json.Unmarshal(frame.Payload, &sent); err != nil {
		t.Fatalf("decoding wire payload: %v", err)
	}
	if len(sent.Points) != 1 || sent.Points[0].Positions[0] != 1.5 {
		t.Errorf("unexpected trajectory on the wire: %+v", sent)
	}

	if err := d.Write(time.Now(), 10*time.Millisecond); err != nil {
		t.Errorf("Write reported transport error: %v", err)
	}
}

func TestRobotForwardsCancel(t *testing.T) {
	port := serialport.NewLoopback()
	d, err := NewRobot("arm", []string{"joint1"}, port, nil)
	if err != nil {
		t.Fatalf("NewRobot failed: %v", err)
	}

	d.Handle().CancelCommand()

	var dec Decoder
	dec.Feed(port.Outgoing())
	frame, ok := dec.Next()
	if !ok {
		t.Fatal("expected a cancel frame on the wire")
	}
	if frame.Type != FrameCancel {
		t.Errorf("expected FrameCancel, got %d", frame.Type)
	}
}

func TestRobotPublishesFeedbackFrames(t *testing.T) {
	port := serialport.NewLoopback()
	d, err := NewRobot("arm", []string{"joint1", "joint2"}, port, nil)
	if err != nil {
		t.Fatalf("NewRobot failed: %v", err)
	}

	fb := msgs.JointFeedback{
		JointNames: []string{"joint1", "joint2"},
		Actual:     msgs.JointTrajectoryPoint{Positions: []float64{0.25, 0.75}},
	}
	payload, err := json.Marshal(fb)
	if err != nil {
		t.Fatalf("marshaling feedback: %v", err)
	}
	frame, err := EncodeFrame(FrameFeedback, payload)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	port.QueueIncoming(frame)

	if err := d.Read(time.Now(), 10*time.Millisecond); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	got := d.Handle().GetFeedback()
	if len(got.Actual.Positions) != 2 || got.Actual.Positions[1] != 0.75 {
		t.Errorf("unexpected feedback: %+v", got.Actual)
	}
}

func TestRobotSurfacesTransportErrors(t *testing.T) {
	port := serialport.NewLoopback()
	d, err := NewRobot("arm", []string{"joint1"}, port, nil)
	if err != nil {
		t.Fatalf("NewRobot failed: %v", err)
	}
	port.Close()

	d.Handle().SetCommand(msgs.JointTrajectory{
		Points: []msgs.JointTrajectoryPoint{{Positions: []float64{1.0}}},
	})

	if err := d.Write(time.Now(), 10*time.Millisecond); err == nil {
		t.Error("expected Write to surface the send failure")
	}
	// The error is cleared after being reported once.
	if err := d.Write(time.Now(), 10*time.Millisecond); err != nil {
		t.Errorf("expected cleared error state, got %v", err)
	}
}

func TestRobotRejectsBadSetup(t *testing.T) {
	if _, err := NewRobot("arm", nil, serialport.NewLoopback(), nil); err == nil {
		t.Error("expected error for empty joint list")
	}
	if _, err := NewRobot("arm", []string{"joint1"}, nil, nil); err == nil {
		t.Error("expected error for nil port")
	}
}
