// Package scene defines the driver's view of the host scene-graph
// framework: where scripts come from, which assets they reference, and
// where translated renderer input goes.
//
// The host framework itself is an external collaborator. The driver only
// ever sees it through the Source and InputSink interfaces, which keeps
// the engine testable with in-memory fakes and lets any scene-graph
// runtime plug in.
package scene

import "github.com/drawbridge-dev/drawbridge/pkg/protocol"

// AssetKind classifies an asset reference declared by a script.
type AssetKind uint8

const (
	AssetFont AssetKind = iota
	AssetImage
	AssetStream
)

// String returns the string representation of the asset kind.
func (k AssetKind) String() string {
	switch k {
	case AssetFont:
		return "font"
	case AssetImage:
		return "image"
	case AssetStream:
		return "stream"
	default:
		return "unknown"
	}
}

// AssetRef names an asset a script depends on.
type AssetRef struct {
	Kind AssetKind
	ID   string
}

// Script is an opaque serialized portion of the host's scene graph,
// keyed by an identifier, plus the assets it declares.
type Script struct {
	ID     protocol.ID
	Data   []byte
	Assets []AssetRef
}

// Source is the driver's read-only view of the host scene graph.
//
// LiveIDs enumerates every script id currently alive in the host
// viewport; it drives the full resync after a renderer reports Ready.
// Script fetches one script by id; the second return is false when the
// id is not (or no longer) live.
type Source interface {
	LiveIDs() []protocol.ID
	Script(id protocol.ID) (Script, bool)
}

// InputSink receives input events the driver translated from renderer
// events. Implementations must not block: the driver calls them from its
// event loop.
type InputSink interface {
	Input(in Input)
}

// NopSink discards all input. Useful for tests and headless hosts.
type NopSink struct{}

func (NopSink) Input(Input) {}
