// Package kit holds the small transport-agnostic plumbing shared by revue's
// HTTP and MCP surfaces: the Endpoint abstraction, middleware chaining, and
// request-scoped context keys.
package kit

import "context"

// Endpoint is a transport-agnostic handler: typed request in, typed
// response out.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument is the outermost.
func Chain(mw ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}
