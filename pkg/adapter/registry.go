package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Factory builds an unconnected adapter.
type Factory func(logger *slog.Logger) Adapter

// ErrTypeRequired is returned when a config names no adapter type.
var ErrTypeRequired = errors.New("adapter type not specified")

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a factory available under name, case-insensitively.
// It panics when name is empty, factory is nil or name is taken, the
// same way database/sql.Register does for drivers.
func Register(name string, factory Factory) {
	key := strings.ToLower(name)
	if key == "" {
		panic("adapter: Register with empty name")
	}
	if factory == nil {
		panic("adapter: Register factory is nil for " + name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := factories[key]; dup {
		panic("adapter: Register called twice for " + name)
	}
	factories[key] = factory
}

// Lookup returns the factory registered for name.
func Lookup(name string) (Factory, error) {
	if name == "" {
		return nil, ErrTypeRequired
	}
	registryMu.RLock()
	f, ok := factories[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownAdapterError{Type: name, Available: Names()}
	}
	return f, nil
}

// IsRegistered reports whether an adapter is registered under name.
func IsRegistered(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// Names returns the registered adapter names in order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds the adapter for cfg.Type and connects it.
func Open(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	factory, err := Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := factory(logger)
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg, err)
	}
	logger.Debug("connected", slog.String("target", cfg.String()), slog.String("dialect", a.Dialect().Name))
	return a, nil
}

// UnknownAdapterError is returned when no adapter is registered for a type.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %s\nHint: set target.type in leapdb.yaml",
		e.Type, strings.Join(e.Available, ", "))
}
