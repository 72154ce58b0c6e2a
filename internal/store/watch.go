package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the burst of events a single save produces
const watchDebounce = 200 * time.Millisecond

// Watch calls onChange after the named table is rewritten on disk, by this
// process or another one. It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, name string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create table watcher: %w", err)
	}
	defer watcher.Close()

	// Saves rename a temp file over the table, so the directory is watched
	// rather than the file itself.
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	target := filepath.Clean(s.Path(name))
	log := s.log.With().Str("table", name).Logger()
	log.Info().Msg("Watching table for changes")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Table watcher stopping")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			log.Debug().Str("op", event.Op.String()).Msg("Detected table change, debouncing")
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Table watcher error")
		}
	}
}
