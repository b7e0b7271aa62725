package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Dialect)
)

// Register makes d available under its lowercased name. Dialect packages
// call it from init; registering a name twice panics.
func Register(d *Dialect) {
	if d == nil || d.Name == "" {
		panic("dialect: Register of unnamed dialect")
	}
	key := strings.ToLower(d.Name)
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[key]; dup {
		panic("dialect: Register called twice for " + d.Name)
	}
	registry[key] = d
}

// Get returns the dialect registered under name, ignoring case.
func Get(name string) (*Dialect, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// Lookup is Get with an error that lists the registered names.
func Lookup(name string) (*Dialect, error) {
	if d, ok := Get(name); ok {
		return d, nil
	}
	return nil, &UnknownDialectError{Name: name, Available: List()}
}

// List returns the registered names in order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDialectError is returned by Lookup for an unregistered name.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %s", e.Name, strings.Join(e.Available, ", "))
}
