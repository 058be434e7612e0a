package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// Factory builds an unconnected adapter. A nil logger discards output.
type Factory func(*slog.Logger) Adapter

// ErrNoAdapterType is returned when a config names no backend.
var ErrNoAdapterType = errors.New("adapter type not specified")

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a backend available under name. Names are case-insensitive.
// Backends call it from init; registering a name again replaces the factory.
func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		panic("adapter: Register called with empty name")
	}
	if factory == nil {
		panic("adapter: Register factory is nil for " + key)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	factories[key] = factory
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[strings.ToLower(name)]
	return f, ok
}

// NewAdapter builds an unconnected adapter for cfg.Type. Callers that only
// need escaping and identifier quoting use it without connecting.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if strings.TrimSpace(cfg.Type) == "" {
		return nil, ErrNoAdapterType
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// Open builds an adapter for cfg.Type and connects it.
func Open(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	a, err := NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAdapters returns the registered names, sorted.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a backend is registered under name.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned when no backend is registered for a type.
// Key names the config setting that selected it, when known.
type UnknownAdapterError struct {
	Type      string
	Key       string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	msg := fmt.Sprintf("unknown adapter type %q", e.Type)
	if e.Key != "" {
		msg += " for " + e.Key
	}
	if len(e.Available) == 0 {
		return msg + " (no adapters registered)"
	}
	return msg + " (available: " + strings.Join(e.Available, ", ") + ")"
}
