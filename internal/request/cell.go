// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"gopkg.microglot.org/remote.go/internal/iter"
	"gopkg.microglot.org/remote.go/remote"
)

// Snapshot is a State as it was published for a target at a point in time.
type Snapshot[T any] struct {
	Target string
	State  remote.State[T]
	At     time.Time
}

// Cell holds the current State of one target along with every State it has
// held before. Reads are safe from any goroutine. Set must only be called by
// the single owner driving the request.
type Cell[T any] struct {
	target  string
	clock   clockwork.Clock
	lock    sync.RWMutex
	history []Snapshot[T]
}

// NewCell returns a Cell for target that starts out NotAsked.
func NewCell[T any](target string, clock clockwork.Clock) *Cell[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &Cell[T]{
		target: target,
		clock:  clock,
	}
	c.Set(remote.NotAsked[T]())
	return c
}

func (c *Cell[T]) Target() string {
	return c.target
}

func (c *Cell[T]) Current() Snapshot[T] {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.history[len(c.history)-1]
}

// Set publishes s as the current State and returns the recorded snapshot.
// The previous State is kept in the history unchanged.
func (c *Cell[T]) Set(s remote.State[T]) Snapshot[T] {
	snap := Snapshot[T]{
		Target: c.target,
		State:  s,
		At:     c.clock.Now(),
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.history = append(c.history, snap)
	return snap
}

// History iterates over a copy of every snapshot recorded so far, oldest
// first.
func (c *Cell[T]) History() iter.Iterator[Snapshot[T]] {
	c.lock.RLock()
	defer c.lock.RUnlock()
	h := make([]Snapshot[T], len(c.history))
	copy(h, c.history)
	return iter.NewSlice(h)
}

// Transition is one change of tag in a Cell's history.
type Transition struct {
	From remote.Tag
	To   remote.Tag
}

// Transitions pairs each snapshot in the history with the one that follows
// it.
func Transitions[T any](ctx context.Context, c *Cell[T]) []Transition {
	look := iter.NewLookahead(c.History(), 1)
	defer look.Close(ctx)
	var out []Transition
	for cur := look.Next(ctx); cur.IsPresent(); cur = look.Next(ctx) {
		next := look.Lookahead(ctx, 1)
		if !next.IsPresent() {
			break
		}
		out = append(out, Transition{
			From: cur.Value().State.Tag(),
			To:   next.Value().State.Tag(),
		})
	}
	return out
}

// Failures returns the snapshots in the history that hold an error.
func Failures[T any](ctx context.Context, c *Cell[T]) []Snapshot[T] {
	failed := iter.FilterFunc[Snapshot[T]](func(ctx context.Context, snap Snapshot[T]) bool {
		_, ok := snap.State.Err()
		return ok
	})
	out, _ := iter.Collect(ctx, iter.NewIteratorFilter(c.History(), iter.Filter[Snapshot[T]](failed)))
	return out
}
