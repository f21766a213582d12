package module

import "sync"

// process-wide port registry. Each binary registers every module it builds
// under the module's name during bootstrap; later wiring resolves ports
// back by name instead of holding on to module values.
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port bundle for a module name, replacing any
// earlier registration
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs resolves a registered bundle by name and asserts it to T.
// ok is false both for unknown names and for bundles of another type.
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, found := reg[name]
	mu.RUnlock()
	if !found {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset drops every registration so tests start from a clean slate
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = map[string]any{}
}
