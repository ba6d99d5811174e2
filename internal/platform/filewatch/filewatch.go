package filewatch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// Watch calls onChange after path is written, created or renamed into place.
// The parent directory is watched so atomic replace-by-rename saves are seen.
// Bursts of events within debounce collapse into one call. Watch returns once
// the watcher is running; it stops when ctx is done.
func Watch(ctx context.Context, log *logger.Logger, path string, debounce time.Duration, onChange func()) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("filewatch: empty path")
	}
	if onChange == nil {
		return fmt.Errorf("filewatch: nil callback")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filewatch: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filewatch: create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("filewatch: watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if log != nil {
					log.Debug("Watched file changed", "path", abs, "op", ev.Op.String())
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, onChange)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.Warn("File watcher error", "path", abs, "error", err)
				}
			}
		}
	}()
	return nil
}
