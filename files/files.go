// Package files provides project-root-scoped file access for the parsing and
// apply engines: snapshot reads, checksums, known-file tracking, and the
// filesystem mutations an edit plan needs (write, create, delete, rename).
//
// All paths are slash-separated and relative to the project root. A file's
// lines are the result of splitting its content on "\n"; joining the lines
// back with "\n" reproduces the content byte for byte, trailing newline
// included or not.
package files

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors for file access.
var (
	// ErrUnknownFile indicates a path outside the known context set.
	ErrUnknownFile = errors.New("file not in context")

	// ErrFileExists indicates a creation target that already exists.
	ErrFileExists = errors.New("file already exists")

	// ErrOutsideRoot indicates a path escaping the project root.
	ErrOutsideRoot = errors.New("path escapes project root")
)

type snapshot struct {
	lines    []string
	checksum string
}

// Manager mediates every filesystem interaction. Reads are snapshotted: the
// first ReadFile of a path caches its content, and that snapshot is what
// parsers display and what replacements refer to until Forget or a mutation
// refreshes it.
//
// Safe for concurrent use.
type Manager struct {
	root string

	mu        sync.Mutex
	known     map[string]struct{}
	snapshots map[string]*snapshot
	modified  map[string]bool
	watching  bool
}

// NewManager creates a manager rooted at root with the given context files.
// The context files are not read until first use and need not exist yet.
func NewManager(root string, contextFiles []string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	m := &Manager{
		root:      abs,
		known:     make(map[string]struct{}),
		snapshots: make(map[string]*snapshot),
		modified:  make(map[string]bool),
	}
	for _, p := range contextFiles {
		norm, err := m.normalize(p)
		if err != nil {
			return nil, err
		}
		m.known[norm] = struct{}{}
	}
	return m, nil
}

// Root returns the absolute project root.
func (m *Manager) Root() string {
	return m.root
}

// normalize converts p to a slash-relative path under the root.
func (m *Manager) normalize(p string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return clean, nil
}

func (m *Manager) abs(rel string) string {
	return filepath.Join(m.root, filepath.FromSlash(rel))
}

// KnownFiles returns the sorted context set.
func (m *Manager) KnownFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.known))
	for p := range m.known {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Exists reports whether path is in the known context set.
func (m *Manager) Exists(path string) bool {
	norm, err := m.normalize(path)
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.known[norm]
	return ok
}

// OnDisk reports whether path currently exists on disk under the root.
func (m *Manager) OnDisk(path string) bool {
	norm, err := m.normalize(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(m.abs(norm))
	return err == nil
}

// ReadFile returns the snapshot lines of a known file, reading and caching
// them on first access.
func (m *Manager) ReadFile(path string) ([]string, error) {
	norm, err := m.normalize(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[norm]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFile, norm)
	}
	snap, err := m.snapshotLocked(norm)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(snap.lines))
	copy(lines, snap.lines)
	return lines, nil
}

func (m *Manager) snapshotLocked(norm string) (*snapshot, error) {
	if snap, ok := m.snapshots[norm]; ok {
		return snap, nil
	}
	data, err := os.ReadFile(m.abs(norm))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", norm, err)
	}
	snap := &snapshot{
		lines:    strings.Split(string(data), "\n"),
		checksum: checksumBytes(data),
	}
	m.snapshots[norm] = snap
	return snap, nil
}

// Checksum returns the snapshot checksum of a known file.
func (m *Manager) Checksum(path string) (string, error) {
	norm, err := m.normalize(path)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[norm]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFile, norm)
	}
	snap, err := m.snapshotLocked(norm)
	if err != nil {
		return "", err
	}
	return snap.checksum, nil
}

// DiskChecksum returns the checksum of the file's current on-disk content,
// bypassing the snapshot.
func (m *Manager) DiskChecksum(path string) (string, error) {
	norm, err := m.normalize(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(m.abs(norm))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", norm, err)
	}
	return checksumBytes(data), nil
}

// Modified reports whether the file's on-disk content has diverged from its
// snapshot. With a watcher running, files it never flagged are trusted
// unchanged; flagged files (and all files when no watcher runs) are verified
// by checksum, since watcher events fire for same-content writes too.
func (m *Manager) Modified(path string) (bool, error) {
	norm, err := m.normalize(path)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	snap := m.snapshots[norm]
	flagged := m.modified[norm]
	watching := m.watching
	m.mu.Unlock()

	if snap == nil {
		return false, nil
	}
	if watching && !flagged {
		return false, nil
	}
	current, err := m.DiskChecksum(norm)
	if err != nil {
		return true, err
	}
	if current == snap.checksum {
		m.mu.Lock()
		m.modified[norm] = false
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// WriteLines writes lines to a known file and refreshes its snapshot.
func (m *Manager) WriteLines(path string, lines []string) error {
	norm, err := m.normalize(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[norm]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, norm)
	}
	return m.writeLocked(norm, lines)
}

func (m *Manager) writeLocked(norm string, lines []string) error {
	data := []byte(strings.Join(lines, "\n"))
	if err := os.MkdirAll(filepath.Dir(m.abs(norm)), 0o755); err != nil {
		return fmt.Errorf("create parent dirs for %s: %w", norm, err)
	}
	if err := os.WriteFile(m.abs(norm), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", norm, err)
	}
	m.snapshots[norm] = &snapshot{
		lines:    strings.Split(string(data), "\n"),
		checksum: checksumBytes(data),
	}
	m.modified[norm] = false
	return nil
}

// Create writes a new file with the given lines and adds it to the known
// set. Fails with ErrFileExists if the path is already on disk.
func (m *Manager) Create(path string, lines []string) error {
	norm, err := m.normalize(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(m.abs(norm)); err == nil {
		return fmt.Errorf("%w: %s", ErrFileExists, norm)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.known[norm] = struct{}{}
	return m.writeLocked(norm, lines)
}

// Delete unlinks a known file and drops it from the known set.
func (m *Manager) Delete(path string) error {
	norm, err := m.normalize(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[norm]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, norm)
	}
	if err := os.Remove(m.abs(norm)); err != nil {
		return fmt.Errorf("delete %s: %w", norm, err)
	}
	delete(m.known, norm)
	delete(m.snapshots, norm)
	delete(m.modified, norm)
	return nil
}

// Rename moves a known file to a new path under the root. Fails with
// ErrFileExists if the target is already on disk.
func (m *Manager) Rename(oldPath, newPath string) error {
	oldNorm, err := m.normalize(oldPath)
	if err != nil {
		return err
	}
	newNorm, err := m.normalize(newPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[oldNorm]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, oldNorm)
	}
	if _, err := os.Stat(m.abs(newNorm)); err == nil {
		return fmt.Errorf("%w: %s", ErrFileExists, newNorm)
	}
	if err := os.MkdirAll(filepath.Dir(m.abs(newNorm)), 0o755); err != nil {
		return fmt.Errorf("create parent dirs for %s: %w", newNorm, err)
	}
	if err := os.Rename(m.abs(oldNorm), m.abs(newNorm)); err != nil {
		return fmt.Errorf("rename %s to %s: %w", oldNorm, newNorm, err)
	}
	delete(m.known, oldNorm)
	m.known[newNorm] = struct{}{}
	if snap, ok := m.snapshots[oldNorm]; ok {
		delete(m.snapshots, oldNorm)
		m.snapshots[newNorm] = snap
	}
	return nil
}

// Forget drops a file's snapshot so the next read rereads the disk.
func (m *Manager) Forget(path string) {
	norm, err := m.normalize(path)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, norm)
	delete(m.modified, norm)
}

func checksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
