package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// Ensure InboxSource implements the interface.
var _ driven.DetectionSource = (*InboxSource)(nil)

// InboxSource imports payloads dropped into a directory.
//
// Each regular, non-hidden file is read as one payload and removed once
// emitted. Files already present when Events is called are imported first,
// in name order. Writers should move finished files into the directory so
// a partially written file is never observed; empty files are left alone
// until they have content.
type InboxSource struct {
	dir string
}

// NewInboxSource creates an inbox source over dir.
func NewInboxSource(dir string) *InboxSource {
	return &InboxSource{dir: dir}
}

// Mode returns domain.SourceModeGallery: imports are never debounced.
func (s *InboxSource) Mode() domain.SourceMode {
	return domain.SourceModeGallery
}

// Dir returns the watched directory.
func (s *InboxSource) Dir() string {
	return s.dir
}

// Events starts watching the directory. The channel closes when ctx is
// cancelled or the watcher fails.
func (s *InboxSource) Events(ctx context.Context) (<-chan string, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("opening inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening inbox: %s is not a directory", s.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	out := make(chan string)
	go s.run(ctx, watcher, out)
	return out, nil
}

func (s *InboxSource) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer watcher.Close()

	// A file is removed only after its payload has been received.
	emit := func(path string) bool {
		payload, ok := s.read(path)
		if !ok {
			return true
		}
		select {
		case out <- payload:
			s.remove(path)
			return true
		case <-ctx.Done():
			return false
		}
	}

	for _, path := range s.existing() {
		if !emit(path) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			path, ok := s.handleFsEvent(event)
			if !ok {
				continue
			}
			if !emit(path) {
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox: watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to import for event, if any.
func (s *InboxSource) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	return event.Name, true
}

// existing lists files already in the directory, sorted by name.
func (s *InboxSource) existing() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("inbox: listing %s: %v", s.dir, err)
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(paths)
	return paths
}

// read returns the payload in the file at path. It reports false when there
// is nothing to import: the file is gone, not regular, or still empty.
// Files holding only line breaks are discarded.
func (s *InboxSource) read(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("inbox: %v", err)
		}
		return "", false
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("inbox: reading %s: %v", path, err)
		return "", false
	}

	payload := strings.TrimRight(string(data), "\r\n")
	if payload == "" {
		s.remove(path)
		return "", false
	}
	return payload, true
}

// remove deletes an imported file.
func (s *InboxSource) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("inbox: removing %s: %v", path, err)
		return
	}
	logger.Debug("inbox: imported %s", filepath.Base(path))
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
