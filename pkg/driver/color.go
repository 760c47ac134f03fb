package driver

import "github.com/drawbridge-dev/drawbridge/pkg/protocol"

// ParseColor normalizes host-supplied color channels into the protocol's
// 0..1 float form. Integer channels are treated as 0-255 and divided;
// float channels pass through. The alpha channel defaults to 1.0 when
// omitted. Channels beyond the fourth are ignored.
func ParseColor(channels ...any) protocol.Color {
	c := protocol.Color{A: 1}
	get := func(i int) (float32, bool) {
		if i >= len(channels) {
			return 0, false
		}
		return normalizeChannel(channels[i]), true
	}
	if v, ok := get(0); ok {
		c.R = v
	}
	if v, ok := get(1); ok {
		c.G = v
	}
	if v, ok := get(2); ok {
		c.B = v
	}
	if v, ok := get(3); ok {
		c.A = v
	}
	return c
}

func normalizeChannel(v any) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	case int:
		return float32(x) / 255
	case uint8:
		return float32(x) / 255
	case uint32:
		return float32(x) / 255
	case int64:
		return float32(x) / 255
	default:
		return 0
	}
}
