package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/asmortongpt/fleetgraph/engine/linking"
)

// defaultDebounce batches bursts of file events (editors and sync
// tools often write several times in quick succession) into one
// reload.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the collections and rebuilds the graph whenever a
// collection file in the data directory changes.
type Watcher struct {
	loader   *Loader
	engine   *linking.Engine
	log      *slog.Logger
	debounce time.Duration

	watched map[string]bool
}

// NewWatcher creates a Watcher over loader's data directory.
func NewWatcher(loader *Loader, engine *linking.Engine, log *slog.Logger) *Watcher {
	watched := make(map[string]bool, len(CollectionFiles))
	for _, name := range CollectionFiles {
		watched[name] = true
	}
	return &Watcher{
		loader:   loader,
		engine:   engine,
		log:      log,
		debounce: defaultDebounce,
		watched:  watched,
	}
}

// Start watches the data directory until ctx is cancelled. Reload
// failures are logged and the previous graph stays in place.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.loader.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.loader.dir, err)
	}

	w.log.Info("watching data directory", "dir", w.loader.dir)

	go func() {
		defer fsw.Close()

		var timer *time.Timer
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !w.relevant(ev) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				pending = timer.C

			case <-pending:
				pending = nil
				w.reload()

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "err", err)
			}
		}
	}()

	return nil
}

// relevant reports whether the event touches a collection file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.watched[filepath.Base(ev.Name)]
}

func (w *Watcher) reload() {
	c, err := w.loader.Load()
	if err != nil {
		w.log.Error("reload failed, keeping previous graph", "err", err)
		return
	}
	w.engine.SetCollections(c)
	w.log.Info("graph rebuilt from data directory", "lastUpdate", w.engine.LastUpdate())
}
