package driver

import "fmt"

// Wire framing for the serial link to a vendor robot controller.
//
// Each frame is:
//
//	sync (0x7E) | length hi | length lo | type | payload | crc hi | crc lo
//
// where length counts the whole frame and the CRC covers length through
// payload. The leading sync byte lets the decoder resynchronize after line
// noise by scanning forward to the next candidate frame.

const (
	// FrameSync delimits the start of every frame.
	FrameSync = 0x7E

	frameHeaderSize  = 4 // sync + length (2) + type
	frameTrailerSize = 2 // crc16

	// FrameLengthMax bounds a whole frame. Trajectory payloads are the
	// largest frames on the wire; anything bigger is treated as corruption.
	FrameLengthMax = 8192
)

// FrameType identifies the content of a frame.
type FrameType byte

const (
	// FrameStart carries a JSON-encoded trajectory to begin executing.
	FrameStart FrameType = 0x01

	// FrameCancel halts the active trajectory. No payload.
	FrameCancel FrameType = 0x02

	// FrameFeedback carries JSON-encoded execution feedback from the
	// controller back to the host.
	FrameFeedback FrameType = 0x03
)

// Frame is one decoded message from the wire.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// crc16 matches the checksum used by Klipper-style serial protocols.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// EncodeFrame builds a complete wire frame for the given type and payload.
func EncodeFrame(ft FrameType, payload []byte) ([]byte, error) {
	total := frameHeaderSize + len(payload) + frameTrailerSize
	if total > FrameLengthMax {
		return nil, fmt.Errorf("frame too long: %d bytes (max %d)", total, FrameLengthMax)
	}

	frame := make([]byte, 0, total)
	frame = append(frame, FrameSync, byte(total>>8), byte(total&0xFF), byte(ft))
	frame = append(frame, payload...)

	crc := crc16(frame[1:]) // length through payload
	frame = append(frame, byte(crc>>8), byte(crc&0xFF))
	return frame, nil
}

// Decoder accumulates raw serial bytes and extracts complete frames. Partial
// frames stay buffered between Feed calls; corrupted data is skipped by
// resyncing on the next sync byte.
type Decoder struct {
	buf []byte

	// CRCErrors counts frames dropped for checksum mismatch since creation.
	CRCErrors int
}

// Feed appends raw bytes from the serial port to the decoder.
func (d *Decoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// Next extracts the next complete frame, if one is buffered. The returned
// payload is a copy and safe to retain.
func (d *Decoder) Next() (Frame, bool) {
	for {
		d.resync()
		if len(d.buf) < frameHeaderSize {
			return Frame{}, false
		}

		total := int(d.buf[1])<<8 | int(d.buf[2])
		if total < frameHeaderSize+frameTrailerSize || total > FrameLengthMax {
			// Bad length: this was not a real frame start.
			d.buf = d.buf[1:]
			continue
		}
		if len(d.buf) < total {
			return Frame{}, false
		}

		want := uint16(d.buf[total-2])<<8 | uint16(d.buf[total-1])
		if crc16(d.buf[1:total-2]) != want {
			d.CRCErrors++
			d.buf = d.buf[1:]
			continue
		}

		payload := make([]byte, total-frameHeaderSize-frameTrailerSize)
		copy(payload, d.buf[frameHeaderSize:total-frameTrailerSize])
		frame := Frame{Type: FrameType(d.buf[3]), Payload: payload}
		d.buf = d.buf[total:]
		return frame, true
	}
}

// resync drops bytes until the buffer starts at a sync byte.
func (d *Decoder) resync() {
	for len(d.buf) > 0 && d.buf[0] != FrameSync {
		d.buf = d.buf[1:]
	}
}
