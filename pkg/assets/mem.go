package assets

import (
	"context"
	"sync"
)

// Mem is an in-memory Store. The zero value is not usable; call NewMem.
// It is safe for concurrent use.
type Mem struct {
	mu      sync.RWMutex
	fonts   map[string][]byte
	images  map[string]Image
	streams map[string]Image
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{
		fonts:   make(map[string][]byte),
		images:  make(map[string]Image),
		streams: make(map[string]Image),
	}
}

// PutFont registers a font blob under a name.
func (m *Mem) PutFont(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fonts[name] = data
}

// PutImage registers an image under an id.
func (m *Mem) PutImage(id string, img Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[id] = img
}

// PutStream registers a streamed texture under an id.
func (m *Mem) PutStream(id string, img Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[id] = img
}

// Font implements Store.
func (m *Mem) Font(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.fonts[name]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// Image implements Store.
func (m *Mem) Image(_ context.Context, id string) (Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[id]
	if !ok {
		return Image{}, ErrNotFound
	}
	return img, nil
}

// Stream implements Store.
func (m *Mem) Stream(_ context.Context, id string) (Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.streams[id]
	if !ok {
		return Image{}, ErrNotFound
	}
	return img, nil
}
