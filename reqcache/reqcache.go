// Package reqcache memoizes read calls for the lifetime of a single request.
//
// A Cache is attached to a request context by middleware and discarded with
// it; nothing is shared across requests. Errors are never stored.
package reqcache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

type ctxKey struct{}

// Cache holds the results of calls made during one request.
type Cache struct {
	group   singleflight.Group
	mu      sync.Mutex
	results map[string]any
}

func New() *Cache {
	return &Cache{results: make(map[string]any)}
}

// WithCache returns a copy of ctx carrying c.
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the cache attached to ctx, or nil.
func FromContext(ctx context.Context) *Cache {
	c, _ := ctx.Value(ctxKey{}).(*Cache)
	return c
}

// Len reports how many results are stored.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Do returns the stored result for name+args, or calls fn once and stores a
// successful result. Concurrent identical calls share one execution. Without
// a cache on ctx, fn is called directly.
func Do[T any](ctx context.Context, name string, args []any, fn func() (T, error)) (T, error) {
	c := FromContext(ctx)
	if c == nil {
		return fn()
	}

	key := Key(name, args...)

	c.mu.Lock()
	if v, ok := c.results[key]; ok {
		c.mu.Unlock()
		return v.(T), nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		res, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.results[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Key builds the cache key for a function name and its arguments.
func Key(name string, args ...any) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%#v", arg)
	}
	b.WriteByte(')')
	return b.String()
}
