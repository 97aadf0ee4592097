package sitemap

import "errors"

var (
	// ErrNoRoute is returned when no active provider serves a coordinate.
	ErrNoRoute = errors.New("sitemap: no route")
	// ErrUnknownStyle is returned for stylesheet names that do not exist.
	ErrUnknownStyle = errors.New("sitemap: unknown stylesheet")
)

// Route is what the registry resolved for one (kind, target) pair. Exactly
// one of Index, Map and Style is set.
type Route struct {
	Index IndexProvider
	Map   MapProvider
	Style string
}

// Registry is the routing table from (kind, target) to providers. Inactive
// providers are never registered, so their documents do not exist.
type Registry struct {
	routes  map[routeKey]Route
	indexes []IndexProvider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[routeKey]Route)}
}

// RegisterIndex adds p if it is active and reports whether it was added.
func (r *Registry) RegisterIndex(p IndexProvider) bool {
	if p == nil || !p.Active() {
		return false
	}
	k := routeKey{kind: KindIndex, target: p.Target()}
	if _, dup := r.routes[k]; dup {
		return false
	}
	r.routes[k] = Route{Index: p}
	r.indexes = append(r.indexes, p)
	return true
}

// RegisterMap adds p if it is active and reports whether it was added.
func (r *Registry) RegisterMap(p MapProvider) bool {
	if p == nil || !p.Active() {
		return false
	}
	k := routeKey{kind: KindMap, target: p.Target()}
	if _, dup := r.routes[k]; dup {
		return false
	}
	r.routes[k] = Route{Map: p}
	return true
}

// RegisterStyle adds the stylesheet called name.
func (r *Registry) RegisterStyle(name string) {
	r.routes[routeKey{kind: KindStyle, target: name}] = Route{Style: name}
}

// Lookup returns the route serving c.
func (r *Registry) Lookup(c Coordinate) (Route, bool) {
	route, ok := r.routes[c.key()]
	return route, ok
}

// Indexes returns the registered index providers in registration order.
func (r *Registry) Indexes() []IndexProvider {
	return r.indexes
}
