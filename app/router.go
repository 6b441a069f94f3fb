package app

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
//
// The router also decodes messages: every registered message type can be
// rebuilt from its path and serialized form.
type Router struct {
	routes map[string]route
}

type route struct {
	msg     reflect.Type
	handler pairswap.Handler
}

var _ pairswap.Registry = (*Router)(nil)
var _ pairswap.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]route, 16),
	}
}

// Handle adds a new Handler for the path of given message.
// panics if another Handler was already registered
func (r *Router) Handle(m pairswap.Msg, h pairswap.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	typ := reflect.TypeOf(m)
	if typ.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("message for %s must be a pointer, got %T", path, m))
	}
	r.routes[path] = route{msg: typ.Elem(), handler: h}
}

// handler returns the registered Handler for this path.
func (r *Router) handler(path string) (pairswap.Handler, error) {
	rt, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", path)
	}
	return rt.handler, nil
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

// Decode builds a new instance of the message registered under given path
// and loads the payload into it. It can be used as a pairswap.MsgDecoder.
func (r *Router) Decode(path string, payload []byte) (pairswap.Msg, error) {
	rt, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no message for path %q", path)
	}
	msg := reflect.New(rt.msg).Interface().(pairswap.Msg)
	if err := msg.Unmarshal(payload); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %s: %s", path, err)
	}
	return msg, nil
}
