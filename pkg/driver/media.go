package driver

import (
	"context"

	"github.com/drawbridge-dev/drawbridge/pkg/assets"
	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
	"github.com/drawbridge-dev/drawbridge/pkg/scene"
)

// mediaCache tracks which assets have been transmitted on the current
// connection. It is wiped on reconnect and on scene reset, so the next
// script referencing an asset sends it again.
type mediaCache struct {
	fonts   map[string]struct{}
	images  map[string]struct{}
	streams map[string]struct{}
}

func newMediaCache() mediaCache {
	return mediaCache{
		fonts:   make(map[string]struct{}),
		images:  make(map[string]struct{}),
		streams: make(map[string]struct{}),
	}
}

func (m *mediaCache) reset() {
	*m = newMediaCache()
}

func (m *mediaCache) set(kind scene.AssetKind) map[string]struct{} {
	switch kind {
	case scene.AssetFont:
		return m.fonts
	case scene.AssetImage:
		return m.images
	default:
		return m.streams
	}
}

func (m *mediaCache) has(ref scene.AssetRef) bool {
	_, ok := m.set(ref.Kind)[ref.ID]
	return ok
}

func (m *mediaCache) add(ref scene.AssetRef) {
	m.set(ref.Kind)[ref.ID] = struct{}{}
}

// ensureMedia transmits every asset the script references that is not
// already cached on this connection. Assets that fail to load are
// skipped and stay uncached, so a later update referencing them retries.
func (d *Driver) ensureMedia(s scene.Script) {
	if d.cfg.Assets == nil || len(s.Assets) == 0 {
		return
	}
	ctx := context.Background()

	for _, ref := range s.Assets {
		if d.media.has(ref) {
			continue
		}

		var frame []byte
		switch ref.Kind {
		case scene.AssetFont:
			data, err := d.cfg.Assets.Font(ctx, ref.ID)
			if err != nil {
				d.logger.Debug("font load skipped", "name", ref.ID, "error", err)
				continue
			}
			frame = protocol.EncodePutFont([]byte(ref.ID), data)

		case scene.AssetImage, scene.AssetStream:
			var img assets.Image
			var err error
			if ref.Kind == scene.AssetImage {
				img, err = d.cfg.Assets.Image(ctx, ref.ID)
			} else {
				img, err = d.cfg.Assets.Stream(ctx, ref.ID)
			}
			if err != nil {
				d.logger.Debug("image load skipped",
					"id", ref.ID, "kind", ref.Kind.String(), "error", err)
				continue
			}
			frame = protocol.EncodePutImage(
				protocol.ID(ref.ID), img.Format, img.Width, img.Height, img.Data)

		default:
			continue
		}

		d.send(frame)
		d.media.add(ref)
	}
}
