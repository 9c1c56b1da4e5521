package module

import (
	"sort"
	"sync"
)

// process wide record of the modules mounted on the API
var (
	mu      sync.RWMutex
	mounted = map[string]struct{}{}
)

// Register records a mounted module by name, repeats are ignored
func Register(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	mounted[name] = struct{}{}
	mu.Unlock()
}

// Names lists mounted module names in sorted order
func Names() []string {
	mu.RLock()
	out := make([]string, 0, len(mounted))
	for k := range mounted {
		out = append(out, k)
	}
	mu.RUnlock()
	sort.Strings(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	mounted = map[string]struct{}{}
	mu.Unlock()
}
