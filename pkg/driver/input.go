package driver

import (
	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
	"github.com/drawbridge-dev/drawbridge/pkg/scene"
)

// translateInput maps the input-class renderer events onto host input
// calls. Lifecycle and observability events are handled in handleEvent.
func (d *Driver) translateInput(ev protocol.Event) {
	sink := d.cfg.Input

	switch e := ev.(type) {
	case protocol.Touch:
		// Touch contacts become left-button presses; moves become
		// cursor positions.
		switch e.Action {
		case protocol.TouchDown:
			sink.Input(scene.CursorButton{
				Button: scene.ButtonLeft, Pressed: true, X: e.X, Y: e.Y,
			})
		case protocol.TouchUp:
			sink.Input(scene.CursorButton{
				Button: scene.ButtonLeft, Pressed: false, X: e.X, Y: e.Y,
			})
		case protocol.TouchMove:
			sink.Input(scene.CursorPos{X: e.X, Y: e.Y})
		default:
			d.logger.Debug("touch action ignored", "action", e.Action)
		}

	case protocol.Key:
		sink.Input(scene.Key{
			Key:      e.Key,
			Scancode: e.Scancode,
			Action:   keyAction(e.Action),
			Mods:     scene.DecodeMods(e.Mods),
		})

	case protocol.Codepoint:
		sink.Input(scene.Codepoint{
			Codepoint: e.Codepoint,
			Mods:      scene.DecodeMods(e.Mods),
		})

	case protocol.CursorPos:
		sink.Input(scene.CursorPos{X: e.X, Y: e.Y})

	case protocol.MouseButton:
		sink.Input(scene.CursorButton{
			Button:  scene.Button(e.Button),
			Pressed: e.Action != 0, // action clamped to press/release
			Mods:    scene.DecodeMods(e.Mods),
			X:       e.X,
			Y:       e.Y,
		})

	case protocol.Scroll:
		sink.Input(scene.CursorScroll{
			XOffset: e.XOffset,
			YOffset: e.YOffset,
			X:       e.X,
			Y:       e.Y,
		})
	}
}

// keyAction maps the wire action integer to the host action tag.
// Unknown values default to press.
func keyAction(action int32) scene.KeyAction {
	switch action {
	case protocol.ActionRelease:
		return scene.KeyRelease
	case protocol.ActionRepeat:
		return scene.KeyRepeat
	default:
		return scene.KeyPress
	}
}
