package files

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch flags known files that receive writes after their snapshot was
// taken, so Modified can skip checksum reads for untouched files. Watching
// runs until the context is cancelled; if a watcher cannot be created the
// manager silently falls back to checksum-only detection.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the parent directories of the known files; watching the files
	// themselves breaks on editors that replace-by-rename.
	dirs := make(map[string]struct{})
	for _, rel := range m.KnownFiles() {
		dirs[filepath.Dir(m.abs(rel))] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	m.mu.Lock()
	m.watching = true
	m.mu.Unlock()

	go func() {
		defer watcher.Close()
		defer func() {
			m.mu.Lock()
			m.watching = false
			m.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				m.flag(event.Name)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Degrade to checksum-only detection: events may
				// have been lost.
				m.mu.Lock()
				m.watching = false
				m.mu.Unlock()
			}
		}
	}()
	return nil
}

// flag marks the file behind an absolute event path as possibly modified.
func (m *Manager) flag(absPath string) {
	rel, err := filepath.Rel(m.root, absPath)
	if err != nil {
		return
	}
	norm, err := m.normalize(filepath.ToSlash(rel))
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.known[norm]; ok {
		m.modified[norm] = true
	}
}
