package pairswap

import (
	"fmt"
	"sort"
	"strings"
)

// Query modifiers appended to a path after "?". Without a modifier the query
// data is an exact key.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key and value pair read from the store.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model for the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler reads models from a read only view of the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryHandlerFunc adapts a plain function to the QueryHandler interface.
type QueryHandlerFunc func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)

func (fn QueryHandlerFunc) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return fn(db, mod, data)
}

// QueryRegister is implemented by every extension that exposes state.
type QueryRegister func(QueryRouter)

// QueryRouter maps a query path, for example "/swaps" or "/vaults/authority",
// to the handler serving it.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router with no routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 16),
	}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register binds a handler to the path. Registering a path twice, or a path
// that is not absolute or carries a modifier, is a programming error and
// panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") || strings.Contains(path, "?") {
		panic(fmt.Sprintf("invalid query path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists all registered paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
