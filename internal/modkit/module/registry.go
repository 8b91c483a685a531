package module

import "sync"

// the binaries register each wired module here so its ports can be looked
// up by name; re-registering a name replaces its ports and keeps its place
var (
	mu    sync.RWMutex
	reg   = map[string]any{}
	order []string
)

// Register stores the port set of the module called name
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := reg[name]; !ok {
		order = append(order, name)
	}
	reg[name] = ports
}

// PortsAs returns the port set of name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Names lists registered modules in registration order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), order...)
}

// Reset empties the registry
func Reset() {
	mu.Lock()
	reg, order = map[string]any{}, nil
	mu.Unlock()
}
