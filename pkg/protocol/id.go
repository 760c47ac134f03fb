package protocol

import (
	"fmt"
	"strconv"
)

// ID is a script or asset identifier as it travels on the wire.
//
// Host frameworks hand identifiers over in whatever shape is convenient:
// byte strings, names, integers or rune sequences. All of them coerce to
// their UTF-8 textual representation. Empty IDs are valid.
type ID []byte

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}

// CoerceID converts any supported identifier shape to an ID.
//
// Supported shapes: ID, []byte, string, integers, rune slices, and
// anything implementing fmt.Stringer. Everything else falls back to the
// fmt "%v" rendering. A single rune is an int32 and renders as its
// decimal value ('a' becomes "97"), not as the character.
func CoerceID(v any) ID {
	switch x := v.(type) {
	case ID:
		return x
	case []byte:
		return ID(x)
	case string:
		return ID(x)
	case []rune:
		return ID(string(x))
	case int:
		return ID(strconv.Itoa(x))
	case int32:
		return ID(strconv.FormatInt(int64(x), 10))
	case int64:
		return ID(strconv.FormatInt(x, 10))
	case uint32:
		return ID(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return ID(strconv.FormatUint(x, 10))
	case fmt.Stringer:
		return ID(x.String())
	default:
		return ID(fmt.Sprintf("%v", v))
	}
}
