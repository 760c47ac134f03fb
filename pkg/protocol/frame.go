package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 5
)

// Frame errors.
var (
	ErrShortHeader   = errors.New("protocol: incomplete frame header")
	ErrFrameTooLarge = errors.New("protocol: frame payload exceeds limit")
)

// FrameType identifies the type of frame. The same u8 namespace is used in
// both directions; command and event codes are interpreted by direction.
type FrameType uint8

// Frame represents a protocol frame with header and payload.
//
// Wire format (5 bytes header + variable payload):
//
//	┌─────────────┬───────────────────────────────┐
//	│ Frame Type  │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//	│                                             │
//	│  Payload (variable length)                  │
//	│                                             │
//	└─────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Header is a decoded frame header.
type Header struct {
	Type   FrameType
	Length uint32
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	return EncodeFrame(f.Type, f.Payload)
}

// EncodeTo encodes the frame using the provided encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// EncodeFrame builds a complete frame from a type code and payload.
// The length field always equals the payload byte count.
func EncodeFrame(t FrameType, payload []byte) []byte {
	length := len(payload)
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(t)
	buf[1] = byte(length >> 24)
	buf[2] = byte(length >> 16)
	buf[3] = byte(length >> 8)
	buf[4] = byte(length)
	copy(buf[FrameHeaderSize:], payload)
	return buf
}

// DecodeHeader decodes a frame header and returns it together with the
// bytes following the header. Returns ErrShortHeader if fewer than
// FrameHeaderSize bytes are available.
func DecodeHeader(data []byte) (Header, []byte, error) {
	if len(data) < FrameHeaderSize {
		return Header{}, nil, ErrShortHeader
	}
	h := Header{
		Type: FrameType(data[0]),
		Length: uint32(data[1])<<24 | uint32(data[2])<<16 |
			uint32(data[3])<<8 | uint32(data[4]),
	}
	return h, data[FrameHeaderSize:], nil
}

// DecodeFrame decodes a frame from bytes.
// The input must contain at least the header and the full payload.
func DecodeFrame(data []byte) (*Frame, error) {
	h, rest, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if uint64(len(rest)) < uint64(h.Length) {
		return nil, io.ErrUnexpectedEOF
	}
	return &Frame{
		Type:    h.Type,
		Payload: rest[:h.Length],
	}, nil
}
