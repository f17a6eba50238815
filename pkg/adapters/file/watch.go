package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the burst of events editors emit on save.
const debounceDelay = 100 * time.Millisecond

// Watch signals on the returned channel whenever the file is written or replaced.
// The directory is watched rather than the file so atomic renames are seen.
// The channel is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		l.watchLoop(ctx, watcher.Events, watcher.Errors, changes)
	}()
	return changes, nil
}

func (l *Loader) watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, changes chan<- struct{}) {
	defer close(changes)

	target := filepath.Base(l.path)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			select {
			case changes <- struct{}{}:
			default:
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			l.logger.Warn("config watch error", "path", l.path, "err", err)
		}
	}
}
