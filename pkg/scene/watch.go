package scene

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// watchDebounce batches bursts of filesystem events (editors write files
// in several steps) into one script update.
const watchDebounce = 100 * time.Millisecond

// DirWatcher mirrors a directory of serialized script files into a
// Viewport and reports changes. Each regular file is one script; the
// file name (without extension) is the script id.
//
// OnUpdate and OnDelete are invoked from the watcher goroutine after the
// viewport has been updated, in the shape the driver's UpdateScripts and
// DelScripts expect.
type DirWatcher struct {
	Dir      string
	Viewport *Viewport
	OnUpdate func(ids []protocol.ID)
	OnDelete func(ids []protocol.ID)
	Logger   *slog.Logger

	watcher *fsnotify.Watcher
}

// Start loads the directory's current contents into the viewport and
// begins watching. It returns once the initial load is done; watching
// continues until ctx is cancelled.
func (w *DirWatcher) Start(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = slog.Default()
	}

	if err := w.loadAll(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scene: watch %s: %w", w.Dir, err)
	}
	if err := watcher.Add(w.Dir); err != nil {
		watcher.Close()
		return fmt.Errorf("scene: watch %s: %w", w.Dir, err)
	}
	w.watcher = watcher

	go w.run(ctx)
	return nil
}

// loadAll reads every script file currently in the directory.
func (w *DirWatcher) loadAll() error {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return fmt.Errorf("scene: read %s: %w", w.Dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		w.loadFile(filepath.Join(w.Dir, entry.Name()))
	}
	return nil
}

func (w *DirWatcher) run(ctx context.Context) {
	defer w.watcher.Close()

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			pending[event.Name] |= event.Op
			debounce.Reset(watchDebounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Logger.Warn("watcher error", "error", err)

		case <-debounce.C:
			w.flush(pending)
			pending = make(map[string]fsnotify.Op)
		}
	}
}

// flush applies a batch of coalesced filesystem events.
func (w *DirWatcher) flush(pending map[string]fsnotify.Op) {
	var updated, deleted []protocol.ID

	for path, op := range pending {
		id := scriptID(path)
		if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			if _, err := os.Stat(path); err != nil {
				w.Viewport.DelScript(id)
				deleted = append(deleted, id)
				continue
			}
		}
		if w.loadFile(path) {
			updated = append(updated, id)
		}
	}

	if len(updated) > 0 && w.OnUpdate != nil {
		w.OnUpdate(updated)
	}
	if len(deleted) > 0 && w.OnDelete != nil {
		w.OnDelete(deleted)
	}
}

// loadFile reads one script file into the viewport.
func (w *DirWatcher) loadFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		w.Logger.Warn("script read failed", "path", path, "error", err)
		return false
	}
	w.Viewport.PutScript(Script{
		ID:   scriptID(path),
		Data: data,
	})
	return true
}

// scriptID derives a script id from a file path: base name, extension
// stripped.
func scriptID(path string) protocol.ID {
	base := filepath.Base(path)
	return protocol.ID(strings.TrimSuffix(base, filepath.Ext(base)))
}
