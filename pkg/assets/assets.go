// Package assets provides the asset stores the driver pulls fonts,
// images and streamed textures from.
//
// Assets are opaque byte blobs from the driver's point of view; only
// images carry metadata (pixel format and dimensions) that travels on
// the wire alongside the data. Three stores are provided: an in-memory
// store for tests and programmatic hosts, a filesystem store for the
// CLI, and an S3-backed store for fleets whose assets live in a bucket.
package assets

import (
	"context"
	"errors"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// ErrNotFound is returned when a store has no asset under the given name.
var ErrNotFound = errors.New("assets: not found")

// Image is an image or streamed-texture blob plus its wire metadata.
// For FormatEncoded the dimensions may be zero; the renderer discovers
// them when it decodes the container.
type Image struct {
	Format protocol.ImageFormat
	Width  uint32
	Height uint32
	Data   []byte
}

// Store resolves asset references declared by scripts.
//
// Streams are dynamic textures (camera feeds, video stills). They
// resolve like images but are tracked separately by the driver's media
// cache, matching how scripts reference them.
type Store interface {
	Font(ctx context.Context, name string) ([]byte, error)
	Image(ctx context.Context, id string) (Image, error)
	Stream(ctx context.Context, id string) (Image, error)
}
