package bt

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kumite/kumite/internal/core/observability/log"
)

// Watcher keeps a tree definition in sync with its document on disk, so a
// running match picks up tuning edits without a restart. A failed reload
// keeps the previous tree.
type Watcher struct {
	loader *Loader
	path   string
	log    log.Log
	fsw    *fsnotify.Watcher

	mu        sync.RWMutex
	current   *Tree
	callbacks []func(*Tree)

	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher loads the document once and starts watching its directory;
// editors that save through a rename still trigger a reload that way.
func NewWatcher(loader *Loader, path string, logger log.Log) (*Watcher, error) {
	if logger == nil {
		logger = log.Nop()
	}
	tree, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch behavior tree: %w", err)
	}
	if err = fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch behavior tree %s: %w", path, err)
	}

	w := &Watcher{
		loader:  loader,
		path:    path,
		log:     logger,
		fsw:     fsw,
		current: tree,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Current returns the latest good tree.
func (w *Watcher) Current() *Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked with each successfully reloaded
// tree.
func (w *Watcher) OnChange(fn func(*Tree)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	base := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("behavior tree watch error", log.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	tree, err := w.loader.LoadFile(w.path)
	if err != nil {
		w.log.Error("behavior tree reload failed, keeping previous",
			log.String("path", w.path),
			log.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.current = tree
	callbacks := append(([]func(*Tree))(nil), w.callbacks...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(tree)
	}
	w.log.Info("behavior tree reloaded",
		log.String("path", w.path),
		log.Int("nodes", tree.Size()),
	)
}
