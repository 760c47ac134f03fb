package protocol

import "log/slog"

// EventType identifies a renderer → driver frame.
type EventType = FrameType

// Event type constants.
const (
	EventStats       EventType = 0x01
	EventReshape     EventType = 0x05
	EventReady       EventType = 0x06
	EventTouch       EventType = 0x08
	EventKey         EventType = 0x0A
	EventCodepoint   EventType = 0x0B
	EventCursorPos   EventType = 0x0C
	EventMouseButton EventType = 0x0D
	EventScroll      EventType = 0x0E
	EventCursorEnter EventType = 0x0F
	EventLogInfo     EventType = 0xA0
	EventLogWarn     EventType = 0xA1
	EventLogError    EventType = 0xA2
)

// EventName returns a human-readable name for an event code.
func EventName(t EventType) string {
	switch t {
	case EventStats:
		return "Stats"
	case EventReshape:
		return "Reshape"
	case EventReady:
		return "Ready"
	case EventTouch:
		return "Touch"
	case EventKey:
		return "Key"
	case EventCodepoint:
		return "Codepoint"
	case EventCursorPos:
		return "CursorPos"
	case EventMouseButton:
		return "MouseButton"
	case EventScroll:
		return "Scroll"
	case EventCursorEnter:
		return "CursorEnter"
	case EventLogInfo:
		return "LogInfo"
	case EventLogWarn:
		return "LogWarn"
	case EventLogError:
		return "LogError"
	default:
		return "Unknown"
	}
}

// TouchAction is the action field of a Touch event.
type TouchAction uint8

const (
	TouchDown TouchAction = 0
	TouchUp   TouchAction = 1
	TouchMove TouchAction = 2
)

// Key action values shared by Key and MouseButton events.
const (
	ActionRelease int32 = 0
	ActionPress   int32 = 1
	ActionRepeat  int32 = 2
)

// Event is a decoded renderer → driver message.
type Event interface {
	Kind() EventType
}

// Stats reports renderer-side receive statistics.
type Stats struct {
	BytesReceived uint64
}

// Reshape reports the renderer's device size in pixels.
type Reshape struct {
	Width  uint32
	Height uint32
}

// Ready signals that the renderer is connected and wants the scene.
type Ready struct{}

// Touch is a touchscreen contact event.
type Touch struct {
	Action TouchAction
	X, Y   float32
}

// Key is a raw keyboard event.
type Key struct {
	Key      uint32
	Scancode uint32
	Action   int32
	Mods     uint32
}

// Codepoint is a translated character input event.
type Codepoint struct {
	Codepoint uint32
	Mods      uint32
}

// CursorPos is a pointer movement event.
type CursorPos struct {
	X, Y float32
}

// MouseButton is a pointer button event.
type MouseButton struct {
	Button uint32
	Action uint32
	Mods   uint32
	X, Y   float32
}

// Scroll is a wheel or trackpad scroll event carrying both the scroll
// offsets and the cursor position at which it happened.
type Scroll struct {
	XOffset, YOffset float32
	X, Y             float32
}

// CursorEnter reports the pointer entering (1) or leaving (0) the surface.
type CursorEnter struct {
	Entered bool
}

// Log is a renderer-side log line forwarded to the driver.
type Log struct {
	Level   slog.Level
	Message []byte
}

// Unknown wraps any frame whose code is not recognized, or whose payload
// does not match the expected size for its code.
type Unknown struct {
	Code    EventType
	Payload []byte
}

func (Stats) Kind() EventType       { return EventStats }
func (Reshape) Kind() EventType     { return EventReshape }
func (Ready) Kind() EventType       { return EventReady }
func (Touch) Kind() EventType       { return EventTouch }
func (Key) Kind() EventType         { return EventKey }
func (Codepoint) Kind() EventType   { return EventCodepoint }
func (CursorPos) Kind() EventType   { return EventCursorPos }
func (MouseButton) Kind() EventType { return EventMouseButton }
func (Scroll) Kind() EventType      { return EventScroll }
func (CursorEnter) Kind() EventType { return EventCursorEnter }
func (u Unknown) Kind() EventType   { return u.Code }

// Kind returns the wire code matching the log level.
func (l Log) Kind() EventType {
	switch l.Level {
	case slog.LevelWarn:
		return EventLogWarn
	case slog.LevelError:
		return EventLogError
	default:
		return EventLogInfo
	}
}

// Fixed payload sizes per event code.
const (
	statsSize       = 8
	reshapeSize     = 8
	touchSize       = 9
	keySize         = 16
	codepointSize   = 8
	cursorPosSize   = 8
	mouseButtonSize = 20
	scrollSize      = 16
	cursorEnterSize = 1
)

// DecodeEvent decodes an event payload for the given frame code.
//
// Decoding never fails: unknown codes and size-mismatched payloads for
// known codes yield Unknown. Log events accept any payload length.
func DecodeEvent(t EventType, payload []byte) Event {
	d := NewDecoder(payload)

	switch t {
	case EventStats:
		if len(payload) != statsSize {
			break
		}
		n, _ := d.ReadUint64()
		return Stats{BytesReceived: n}

	case EventReshape:
		if len(payload) != reshapeSize {
			break
		}
		w, _ := d.ReadUint32()
		h, _ := d.ReadUint32()
		return Reshape{Width: w, Height: h}

	case EventReady:
		if len(payload) != 0 {
			break
		}
		return Ready{}

	case EventTouch:
		if len(payload) != touchSize {
			break
		}
		action, _ := d.ReadByte()
		x, _ := d.ReadFloat32()
		y, _ := d.ReadFloat32()
		return Touch{Action: TouchAction(action), X: x, Y: y}

	case EventKey:
		if len(payload) != keySize {
			break
		}
		key, _ := d.ReadUint32()
		scancode, _ := d.ReadUint32()
		action, _ := d.ReadInt32()
		mods, _ := d.ReadUint32()
		return Key{Key: key, Scancode: scancode, Action: action, Mods: mods}

	case EventCodepoint:
		if len(payload) != codepointSize {
			break
		}
		cp, _ := d.ReadUint32()
		mods, _ := d.ReadUint32()
		return Codepoint{Codepoint: cp, Mods: mods}

	case EventCursorPos:
		if len(payload) != cursorPosSize {
			break
		}
		x, _ := d.ReadFloat32()
		y, _ := d.ReadFloat32()
		return CursorPos{X: x, Y: y}

	case EventMouseButton:
		if len(payload) != mouseButtonSize {
			break
		}
		button, _ := d.ReadUint32()
		action, _ := d.ReadUint32()
		mods, _ := d.ReadUint32()
		x, _ := d.ReadFloat32()
		y, _ := d.ReadFloat32()
		return MouseButton{Button: button, Action: action, Mods: mods, X: x, Y: y}

	case EventScroll:
		if len(payload) != scrollSize {
			break
		}
		xo, _ := d.ReadFloat32()
		yo, _ := d.ReadFloat32()
		x, _ := d.ReadFloat32()
		y, _ := d.ReadFloat32()
		return Scroll{XOffset: xo, YOffset: yo, X: x, Y: y}

	case EventCursorEnter:
		if len(payload) != cursorEnterSize {
			break
		}
		return CursorEnter{Entered: payload[0] != 0}

	case EventLogInfo:
		return Log{Level: slog.LevelInfo, Message: payload}
	case EventLogWarn:
		return Log{Level: slog.LevelWarn, Message: payload}
	case EventLogError:
		return Log{Level: slog.LevelError, Message: payload}
	}

	return Unknown{Code: t, Payload: payload}
}

// DecodeEventFrame decodes a complete framed event (header included),
// as produced by the frame extractor.
func DecodeEventFrame(frame []byte) (Event, error) {
	f, err := DecodeFrame(frame)
	if err != nil {
		return nil, err
	}
	return DecodeEvent(f.Type, f.Payload), nil
}
