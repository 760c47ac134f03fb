package scene

import (
	"reflect"
	"testing"
)

func TestDecodeMods(t *testing.T) {
	tests := []struct {
		name string
		wire uint32
		want Mods
		list []string
	}{
		{"none", 0, 0, nil},
		{"shift", 0x01, ModShift, []string{"shift"}},
		{"ctrl_alt", 0x06, ModCtrl | ModAlt, []string{"ctrl", "alt"}},
		{"all", 0x3F, ModShift | ModCtrl | ModAlt | ModMeta | ModCapsLock | ModNumLock,
			[]string{"shift", "ctrl", "alt", "meta", "caps_lock", "num_lock"}},
		{"undefined_bits_dropped", 0xFFC0, 0, nil},
		{"mixed", 0x8009, ModShift | ModMeta, []string{"shift", "meta"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeMods(tc.wire)
			if got != tc.want {
				t.Errorf("DecodeMods(%#x) = %#x, want %#x", tc.wire, got, tc.want)
			}
			if list := got.List(); !reflect.DeepEqual(list, tc.list) {
				t.Errorf("List() = %v, want %v", list, tc.list)
			}
		})
	}
}

func TestButtonString(t *testing.T) {
	if ButtonLeft.String() != "left" || ButtonRight.String() != "right" || ButtonMiddle.String() != "middle" {
		t.Error("button names wrong")
	}
	if Button(7).String() != "button" {
		t.Errorf("Button(7).String() = %q", Button(7).String())
	}
}
