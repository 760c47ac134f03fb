package scene

import (
	"sync"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// Viewport is an in-memory Source. It is the reference host used by the
// CLI and by tests; real scene-graph runtimes implement Source directly.
//
// Viewport is safe for concurrent use.
type Viewport struct {
	mu      sync.RWMutex
	scripts map[string]Script
	order   []string // insertion order, so LiveIDs is deterministic
}

// NewViewport creates an empty viewport.
func NewViewport() *Viewport {
	return &Viewport{
		scripts: make(map[string]Script),
	}
}

// PutScript inserts or replaces a script.
func (v *Viewport) PutScript(s Script) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := s.ID.String()
	if _, exists := v.scripts[key]; !exists {
		v.order = append(v.order, key)
	}
	v.scripts[key] = s
}

// DelScript removes a script. Unknown ids are ignored.
func (v *Viewport) DelScript(id protocol.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := id.String()
	if _, exists := v.scripts[key]; !exists {
		return
	}
	delete(v.scripts, key)
	for i, k := range v.order {
		if k == key {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// LiveIDs returns all live script ids in insertion order.
func (v *Viewport) LiveIDs() []protocol.ID {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make([]protocol.ID, len(v.order))
	for i, k := range v.order {
		ids[i] = protocol.ID(k)
	}
	return ids
}

// Script fetches a script by id.
func (v *Viewport) Script(id protocol.ID) (Script, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s, ok := v.scripts[id.String()]
	return s, ok
}

// Len returns the number of live scripts.
func (v *Viewport) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.scripts)
}
