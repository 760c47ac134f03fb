package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int // expected total length including header
	}{
		{
			name: "empty_payload",
			frame: Frame{
				Type:    CmdRender,
				Payload: []byte{},
			},
			wantLen: FrameHeaderSize,
		},
		{
			name: "with_payload",
			frame: Frame{
				Type:    CmdPutScript,
				Payload: []byte{0x01, 0x02, 0x03},
			},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name: "event_frame",
			frame: Frame{
				Type:    EventReshape,
				Payload: []byte{0x00, 0x00, 0x04, 0x38, 0x00, 0x00, 0x07, 0x80},
			},
			wantLen: FrameHeaderSize + 8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Encode
			encoded := tc.frame.Encode()
			if len(encoded) != tc.wantLen {
				t.Errorf("Encode() length = %d, want %d", len(encoded), tc.wantLen)
			}

			// Verify header
			if FrameType(encoded[0]) != tc.frame.Type {
				t.Errorf("Encoded type = %v, want %v", FrameType(encoded[0]), tc.frame.Type)
			}

			// Decode
			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}

			if decoded.Type != tc.frame.Type {
				t.Errorf("Decoded type = %v, want %v", decoded.Type, tc.frame.Type)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("Decoded payload = %v, want %v", decoded.Payload, tc.frame.Payload)
			}
		})
	}
}

func TestEncodeFrameWireLayout(t *testing.T) {
	// encode_frame(0x01, "test") must produce the exact documented bytes.
	got := EncodeFrame(0x01, []byte("test"))
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x04, 't', 'e', 's', 't'}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeFrame() = %v, want %v", got, want)
	}

	h, rest, err := DecodeHeader(got)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if h.Type != 0x01 {
		t.Errorf("Type = %#x, want 0x01", h.Type)
	}
	if h.Length != 4 {
		t.Errorf("Length = %d, want 4", h.Length)
	}
	if !bytes.Equal(rest, []byte("test")) {
		t.Errorf("rest = %q, want %q", rest, "test")
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		if _, _, err := DecodeHeader(make([]byte, n)); !errors.Is(err, ErrShortHeader) {
			t.Errorf("DecodeHeader(%d bytes) error = %v, want ErrShortHeader", n, err)
		}
	}
}

func TestDecodeFrameTruncatedPayload(t *testing.T) {
	full := EncodeFrame(CmdPutScript, []byte("abcdef"))
	if _, err := DecodeFrame(full[:len(full)-1]); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("DecodeFrame(truncated) error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestFrameEncodeTo(t *testing.T) {
	f := &Frame{
		Type:    CmdClearColor,
		Payload: []byte{0x01, 0x02, 0x03},
	}

	e := NewEncoder()
	f.EncodeTo(e)

	direct := f.Encode()
	if !bytes.Equal(e.Bytes(), direct) {
		t.Errorf("EncodeTo() = %v, want %v", e.Bytes(), direct)
	}
}
