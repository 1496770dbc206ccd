package food

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatchedSource keeps a catalog file loaded in memory and reloads it when the
// file changes on disk. A file that fails to parse leaves the previous
// catalog in place.
type WatchedSource struct {
	file    *FileSource
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu      sync.RWMutex
	catalog Catalog

	done chan struct{}
}

// NewWatchedSource loads path and starts watching its directory.
func NewWatchedSource(ctx context.Context, path string, logger zerolog.Logger) (*WatchedSource, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog watcher needs a file path")
	}
	file := NewFileSource(path)
	catalog, err := file.Load(ctx)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	// Editors often replace files through a rename, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	s := &WatchedSource{
		file:    file,
		watcher: w,
		log:     logger.With().Str("component", "catalog-watcher").Str("path", path).Logger(),
		catalog: catalog,
		done:    make(chan struct{}),
	}
	go s.run(ctx)
	return s, nil
}

// Load returns the most recently loaded catalog.
func (s *WatchedSource) Load(_ context.Context) (Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

// Close stops watching.
func (s *WatchedSource) Close() error {
	err := s.watcher.Close()
	<-s.done
	return err
}

func (s *WatchedSource) run(ctx context.Context) {
	defer close(s.done)
	target := filepath.Clean(s.file.Path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.reload(ctx)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

func (s *WatchedSource) reload(ctx context.Context) {
	catalog, err := s.file.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("keeping previous catalog")
		return
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	s.log.Info().
		Int("rice", len(catalog.Rice)).
		Int("soup", len(catalog.Soup)).
		Int("side_dish", len(catalog.SideDish)).
		Msg("catalog reloaded")
}
