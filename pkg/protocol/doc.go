// Package protocol implements the binary wire protocol spoken between the
// driver engine and remote renderers.
//
// The protocol is a simple framed byte stream. Commands flow from the driver
// to the renderer (scripts, assets, transforms, render ticks) and events flow
// back (input, reshape, lifecycle, log lines).
//
// # Design Goals
//
//   - Trivial framing: every message is one frame, extractable from an
//     arbitrarily fragmented byte stream
//   - Fast encoding/decoding: no reflection, direct byte manipulation
//   - Forward tolerant: unknown event codes decode to Unknown, never an error
//   - Transport agnostic: frames are plain bytes over TCP, Unix sockets or
//     WebSocket binary messages
//
// # Wire Format
//
// All messages are framed with a 5-byte header:
//
//	┌─────────────┬───────────────────────────────┐
//	│ Frame Type  │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//
// The payload layout is frame-type specific. Fixed-width integers are
// big-endian; floating point fields are IEEE 754 single precision, also
// big-endian. Variable-length payload fields carry a u32 length prefix for
// every field that precedes another; the final field consumes the payload
// remainder.
//
// # Commands (driver → renderer)
//
//   - CmdPutScript (0x01), CmdDelScript (0x02), CmdReset (0x03)
//   - CmdGlobalTx (0x04), CmdCursorTx (0x05): 2x3 affine transforms
//   - CmdRender (0x06): frame tick
//   - CmdClearColor (0x08): normalized RGBA background
//   - CmdRequestInput (0x0A), CmdQuit (0x20)
//   - CmdPutFont (0x40), CmdPutImage (0x41): asset uploads
//
// # Events (renderer → driver)
//
//   - EventStats (0x01), EventReshape (0x05), EventReady (0x06)
//   - EventTouch (0x08), EventKey (0x0A), EventCodepoint (0x0B)
//   - EventCursorPos (0x0C), EventMouseButton (0x0D), EventScroll (0x0E)
//   - EventCursorEnter (0x0F)
//   - EventLogInfo (0xA0), EventLogWarn (0xA1), EventLogError (0xA2)
package protocol
