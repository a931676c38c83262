// SPDX-License-Identifier: GPL-3.0-or-later

// Package resolve turns a collection with pending parts into one fully
// resolved snapshot. Callers see either the whole resolved value or an error.
package resolve

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Future is a value that becomes available later.
type Future interface {
	Resolve(ctx context.Context) (any, error)
}

// FutureFunc adapts a function to a Future.
type FutureFunc func(ctx context.Context) (any, error)

func (f FutureFunc) Resolve(ctx context.Context) (any, error) { return f(ctx) }

// Value returns a Future already resolved to v.
func Value(v any) Future {
	return FutureFunc(func(context.Context) (any, error) { return v, nil })
}

// Source produces the row collection of a table. Elements may be Futures or
// contain Futures at any depth.
type Source interface {
	Fetch(ctx context.Context) ([]any, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) ([]any, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]any, error) { return f(ctx) }

// Static is a Source returning a fixed collection.
type Static []any

func (s Static) Fetch(context.Context) ([]any, error) { return s, nil }

// Resolver resolves nested Futures concurrently.
type Resolver struct {
	// MaxGoroutines limits concurrent resolutions per collection level.
	MaxGoroutines int
}

// New returns a Resolver using the number of CPUs as its limit.
func New() *Resolver {
	return &Resolver{MaxGoroutines: runtime.GOMAXPROCS(0)}
}

// Rows fetches the source and resolves every element.
func (r *Resolver) Rows(ctx context.Context, src Source) ([]any, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	return r.All(ctx, data)
}

// All resolves every element of data. Resolved values that are themselves
// collections or Futures are resolved recursively.
func (r *Resolver) All(ctx context.Context, data []any) ([]any, error) {
	out := make([]any, len(data))

	p := r.pool(ctx)
	for i, v := range data {
		p.Go(func(ctx context.Context) error {
			res, err := r.resolve(ctx, v)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, v any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case Future:
		res, err := t.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return r.resolve(ctx, res)
	case []any:
		return r.All(ctx, t)
	case map[string]any:
		return r.resolveMap(ctx, t)
	default:
		return v, nil
	}
}

func (r *Resolver) resolveMap(ctx context.Context, m map[string]any) (map[string]any, error) {
	keys := make([]string, 0, len(m))
	vals := make([]any, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		vals = append(vals, v)
	}

	resolved, err := r.All(ctx, vals)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(m))
	for i, k := range keys {
		out[k] = resolved[i]
	}
	return out, nil
}

func (r *Resolver) pool(ctx context.Context) *pool.ContextPool {
	p := pool.New()
	if r.MaxGoroutines > 0 {
		p = p.WithMaxGoroutines(r.MaxGoroutines)
	}
	return p.WithContext(ctx).WithCancelOnError().WithFirstError()
}

// All resolves data with a default Resolver.
func All(ctx context.Context, data []any) ([]any, error) {
	return New().All(ctx, data)
}
