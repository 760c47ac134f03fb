package protocol

import (
	"bytes"
	"testing"
)

// FuzzDecodeFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeFrame(f *testing.F) {
	// Seed with valid frames
	f.Add(EncodeFrame(CmdRender, nil))
	f.Add(EncodePutScript(ID("s"), []byte("body")))
	f.Add(EncodeClearColor(Color{R: 1, A: 1}))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodeFrame(data)
	})
}

// FuzzDecodeEvent tests that arbitrary payloads decode without panicking
// and never produce an error path.
func FuzzDecodeEvent(f *testing.F) {
	f.Add(byte(EventReshape), []byte{0, 0, 0, 100, 0, 0, 0, 200})
	f.Add(byte(EventTouch), make([]byte, 9))
	f.Add(byte(EventLogWarn), []byte("warn"))
	f.Add(byte(0xEE), []byte{1, 2, 3})

	f.Fuzz(func(t *testing.T, code byte, payload []byte) {
		ev := DecodeEvent(EventType(code), payload)
		if ev == nil {
			t.Fatal("DecodeEvent returned nil")
		}
	})
}

// FuzzExtract verifies the extractor's residual invariant on arbitrary
// byte streams: re-feeding residual plus nothing extracts nothing more,
// and all extracted frames re-concatenate into a prefix of the input.
func FuzzExtract(f *testing.F) {
	f.Add([]byte{})
	f.Add(EncodeFrame(EventReady, nil))
	f.Add(append(EncodeFrame(EventReady, nil), 0x05, 0x00))

	f.Fuzz(func(t *testing.T, data []byte) {
		frames, residual := Extract(data)

		var joined []byte
		for _, fr := range frames {
			joined = append(joined, fr...)
		}
		joined = append(joined, residual...)
		if !bytes.Equal(joined, data) {
			t.Fatalf("frames + residual != input")
		}

		again, rest := Extract(residual)
		if len(again) != 0 {
			t.Fatalf("residual contained a complete frame")
		}
		if !bytes.Equal(rest, residual) {
			t.Fatalf("residual not stable")
		}
	})
}
