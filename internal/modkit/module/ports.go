package module

import "reflect"

// PortsOf pulls one interface out of a module's Ports bundle. The scrape
// module exports a struct carrying its runner, snapshot store and change
// reader; a caller names the single port it needs and ignores the rest.
// A bundle may also be the requested interface itself. ok is false when
// nothing in the bundle satisfies T.
func PortsOf[T any](m Module) (t T, ok bool) {
	p := m.Ports()
	if p == nil {
		return t, false
	}
	if v, hit := p.(T); hit {
		return v, true
	}

	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		// unexported fields are the module's own business
		if !f.CanInterface() {
			continue
		}
		if v, hit := f.Interface().(T); hit {
			return v, true
		}
	}
	return t, false
}

// MustPortsOf is PortsOf for wiring paths where a missing port means the
// composition root is broken, not that a backend is down
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return v
}
