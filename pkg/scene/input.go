package scene

// Input is a translated renderer input event delivered to the host.
// The concrete types below are the full set the driver emits.
type Input interface {
	isInput()
}

// Button identifies a pointer button. Codes 0-2 have symbolic names;
// higher codes pass through untranslated.
type Button uint32

const (
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

// String returns the string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "button"
	}
}

// KeyAction is the press state of a key event.
type KeyAction uint8

const (
	KeyRelease KeyAction = 0
	KeyPress   KeyAction = 1
	KeyRepeat  KeyAction = 2
)

// String returns the string representation of the key action.
func (a KeyAction) String() string {
	switch a {
	case KeyRelease:
		return "release"
	case KeyRepeat:
		return "repeat"
	default:
		return "press"
	}
}

// Mods is a set of keyboard modifiers active during an input event.
type Mods uint32

const (
	ModShift    Mods = 0x01
	ModCtrl     Mods = 0x02
	ModAlt      Mods = 0x04
	ModMeta     Mods = 0x08
	ModCapsLock Mods = 0x10
	ModNumLock  Mods = 0x20
)

// modMask covers every modifier bit with a defined meaning.
const modMask = ModShift | ModCtrl | ModAlt | ModMeta | ModCapsLock | ModNumLock

// DecodeMods maps a wire modifier bitmask to the set of known modifiers.
// Undefined bits are dropped.
func DecodeMods(wire uint32) Mods {
	return Mods(wire) & modMask
}

// Has returns true if the set contains the given modifier.
func (m Mods) Has(mod Mods) bool {
	return m&mod != 0
}

// List expands the set into individual modifier names.
func (m Mods) List() []string {
	var out []string
	for _, e := range [...]struct {
		bit  Mods
		name string
	}{
		{ModShift, "shift"},
		{ModCtrl, "ctrl"},
		{ModAlt, "alt"},
		{ModMeta, "meta"},
		{ModCapsLock, "caps_lock"},
		{ModNumLock, "num_lock"},
	} {
		if m.Has(e.bit) {
			out = append(out, e.name)
		}
	}
	return out
}

// CursorButton is a pointer button press (Pressed=true) or release at a
// position, translated from renderer touch and mouse-button events.
type CursorButton struct {
	Button  Button
	Pressed bool
	Mods    Mods
	X, Y    float32
}

// CursorPos is a pointer movement.
type CursorPos struct {
	X, Y float32
}

// CursorScroll carries scroll deltas plus the cursor position at which
// the scroll happened.
type CursorScroll struct {
	XOffset, YOffset float32
	X, Y             float32
}

// Key is a raw keyboard event.
type Key struct {
	Key      uint32
	Scancode uint32
	Action   KeyAction
	Mods     Mods
}

// Codepoint is a translated character input.
type Codepoint struct {
	Codepoint uint32
	Mods      Mods
}

// Reshape reports a renderer's device size to the host.
type Reshape struct {
	Width  uint32
	Height uint32
}

func (CursorButton) isInput() {}
func (CursorPos) isInput()    {}
func (CursorScroll) isInput() {}
func (Key) isInput()          {}
func (Codepoint) isInput()    {}
func (Reshape) isInput()      {}
