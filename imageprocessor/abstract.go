// abstract.go defines the Preprocessor interface and the preprocessor registry.

// Package imageprocessor turns raw video frames into the blurred luminance
// planes the change-point detector compares.
package imageprocessor

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
)

type Preprocessor interface {
	fmt.Stringer
	// Preprocess returns a new luminance plane; the result is owned by the caller.
	Preprocess(context.Context, image.Image) (*image.Gray, error)
	Close(context.Context) error
}

type Factory func(ctx context.Context, cfg Config) (Preprocessor, error)

var (
	factoriesLocker sync.Mutex
	factories       = map[string]Factory{}
)

func Register(name string, factory Factory) {
	factoriesLocker.Lock()
	defer factoriesLocker.Unlock()
	factories[name] = factory
}

func New(ctx context.Context, name string, cfg Config) (Preprocessor, error) {
	factoriesLocker.Lock()
	factory, ok := factories[name]
	factoriesLocker.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown preprocessor '%s' (available: %v)", name, Names())
	}
	return factory(ctx, cfg)
}

func Names() []string {
	factoriesLocker.Lock()
	defer factoriesLocker.Unlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
