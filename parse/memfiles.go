package parse

import "fmt"

// MemFiles is an in-memory FileReader keyed by relative path. It backs
// previews and tests that have no project directory.
type MemFiles map[string][]string

// ReadFile implements FileReader.
func (m MemFiles) ReadFile(path string) ([]string, error) {
	lines, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("file not in context: %s", path)
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

// Exists implements FileReader.
func (m MemFiles) Exists(path string) bool {
	_, ok := m[path]
	return ok
}

// OnDisk implements FileReader. For in-memory files the known set is all
// there is.
func (m MemFiles) OnDisk(path string) bool {
	return m.Exists(path)
}
