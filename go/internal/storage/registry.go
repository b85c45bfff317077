package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings holds the driver-specific section of the storage config.
type Settings map[string]interface{}

// Decode copies the settings into a driver config struct using its yaml tags.
func (s Settings) Decode(into interface{}) error {
	if len(s) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]interface{}(s))
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}

// Driver opens a Slot from its settings.
type Driver interface {
	Open(ctx context.Context, settings Settings) (Slot, error)
}

// DriverFunc adapts a plain function to the Driver interface.
type DriverFunc func(ctx context.Context, settings Settings) (Slot, error)

func (f DriverFunc) Open(ctx context.Context, settings Settings) (Slot, error) {
	return f(ctx, settings)
}

var (
	registry   = make(map[string]Driver)
	registryMu sync.RWMutex
)

// Register adds a driver implementation under a name.
// It should be called in each driver package's init() function.
func Register(name string, driver Driver) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if name == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if driver == nil {
		return fmt.Errorf("driver %q is nil", name)
	}
	if _, exists := registry[name]; exists {
		return fmt.Errorf("storage driver already registered for name %q", name)
	}
	registry[name] = driver
	return nil
}

// MustRegister is Register for init() functions.
func MustRegister(name string, driver Driver) {
	if err := Register(name, driver); err != nil {
		panic(fmt.Sprintf("failed to register storage driver: %v", err))
	}
}

// Open looks up a driver by name and opens a slot with it.
func Open(ctx context.Context, name string, settings Settings) (Slot, error) {
	registryMu.RLock()
	driver, exists := registry[name]
	registryMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("no storage driver registered for name %q", name)
	}

	slot, err := driver.Open(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage driver %q: %w", name, err)
	}
	return slot, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
