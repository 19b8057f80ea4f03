package framesource

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Opener opens a video by path or URL.
type Opener func(ctx context.Context, url string) (Source, error)

var (
	backendsLocker sync.Mutex
	backends       = map[string]Opener{}
)

// RegisterBackend is called from the init of each decoder package.
func RegisterBackend(name string, opener Opener) {
	backendsLocker.Lock()
	defer backendsLocker.Unlock()
	backends[name] = opener
}

func Open(ctx context.Context, backend string, url string) (Source, error) {
	backendsLocker.Lock()
	opener, ok := backends[backend]
	backendsLocker.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown decoder backend '%s' (available: %v)", backend, Backends())
	}
	src, err := opener(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s' with '%s': %w", url, backend, err)
	}
	return src, nil
}

func Backends() []string {
	backendsLocker.Lock()
	defer backendsLocker.Unlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
