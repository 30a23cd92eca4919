package drill

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/greenside-labs/go-putt/internal/applog"
)

// Watch reloads the registry from the TOML file at path whenever it
// changes on disk, so drills can be added or retuned without a restart.
// Events are debounced since editors emit several writes per save. The
// returned stop function closes the watcher; it also stops when ctx ends.
func Watch(ctx context.Context, reg *Registry, path string, debounce time.Duration) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch drill config: %w", err)
	}
	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which would orphan a file-level watch.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch drill config: %w", err)
	}
	base := filepath.Base(path)

	go func() {
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				w.Close()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					timer.Reset(debounce)
				}
			case <-fire:
				timer = nil
				fire = nil
				defs, err := loadDefinitions(path)
				if err != nil {
					applog.Log.Warn("Drill config reload failed", "path", path, "error", err)
					continue
				}
				reg.Replace(defs)
				applog.Log.Info("Drill config reloaded", "path", path, "drills", len(defs))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				applog.Log.Warn("Drill config watcher error", "error", err)
			}
		}
	}()

	return w.Close, nil
}
