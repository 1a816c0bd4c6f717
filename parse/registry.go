package parse

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFormat indicates the requested format is not registered.
var ErrUnknownFormat = errors.New("unknown format")

// registry stores registered formats.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Format)
)

// Register adds a format to the registry. Formats call this in their init()
// function. Panics if the name is already taken.
//
// Example:
//
//	func init() {
//	    parse.Register(New())
//	}
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[f.Name()]; exists {
		panic(fmt.Sprintf("format %q already registered", f.Name()))
	}
	registry[f.Name()] = f
}

// New returns the named format.
// Returns ErrUnknownFormat if no format with that name is registered.
func New(name string) (Format, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f, nil
}

// MustNew returns the named format, panicking on error.
// Use only when format availability is guaranteed (e.g., in tests).
func MustNew(name string) Format {
	f, err := New(name)
	if err != nil {
		panic(fmt.Sprintf("parse.MustNew(%q): %v", name, err))
	}
	return f
}

// Available returns the names of all registered formats, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a format is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, ok := registry[name]
	return ok
}

// Unregister removes a format from the registry.
// This is primarily useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, name)
}
