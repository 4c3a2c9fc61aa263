// Package iter provides pull-style iteration over recorded values such as the
// snapshot history of a request.
package iter

import (
	"context"

	"gopkg.microglot.org/remote.go/optional"
)

// Iterator yields values until it returns an absent Optional.
type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Close(ctx context.Context) error
}

// Lookahead is an Iterator that can peek up to a fixed number of values past
// the most recent call to Next.
type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

// NewSlice converts a slice of values into an Iterator implementation. The
// slice is not copied.
func NewSlice[T any](vs []T) Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	if it.offset+1 >= len(it.slice) {
		it.offset = len(it.slice)
		return optional.None[T]()
	}
	it.offset = it.offset + 1
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// Collect drains it into a slice and closes it.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var out []T
	for v, ok := it.Next(ctx).Get(); ok; v, ok = it.Next(ctx).Get() {
		out = append(out, v)
	}
	return out, it.Close(ctx)
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it Iterator[T], f Filter[T]) Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   Iterator[T]
	filter Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() || it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// NewLookahead wraps an iterator in a Lookahead implementation to enable
// peeking at the next n values.
func NewLookahead[T any](it Iterator[T], n uint8) Lookahead[T] {
	return &lookahead[T]{
		iter: it,
		n:    n,
	}
}

// lookahead keeps a window of n+1 values. Once started, index 0 is the value
// most recently returned by Next.
type lookahead[T any] struct {
	iter    Iterator[T]
	n       uint8
	window  []optional.Optional[T]
	started bool
}

func (look *lookahead[T]) fill(ctx context.Context) {
	if look.window != nil {
		return
	}
	look.window = make([]optional.Optional[T], 0, int(look.n)+1)
	for len(look.window) <= int(look.n) {
		look.window = append(look.window, look.iter.Next(ctx))
	}
}

func (look *lookahead[T]) Next(ctx context.Context) optional.Optional[T] {
	look.fill(ctx)
	if !look.started {
		look.started = true
		return look.window[0]
	}
	copy(look.window, look.window[1:])
	look.window[len(look.window)-1] = look.iter.Next(ctx)
	return look.window[0]
}

func (look *lookahead[T]) Close(ctx context.Context) error {
	return look.iter.Close(ctx)
}

// Lookahead returns the value n positions past the last call to Next. Zero
// is the current value. Before the first Next, zero is the value that Next
// will return. Peeking beyond the configured window returns None.
func (look *lookahead[T]) Lookahead(ctx context.Context, n uint8) optional.Optional[T] {
	look.fill(ctx)
	if n > look.n {
		return optional.None[T]()
	}
	return look.window[n]
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}
