// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package remote

// variant is the sealed set of cases a State may hold. Only the types in this
// file implement it.
type variant[T any] interface {
	tag() Tag
	accept(c cases[T])
}

// cases holds one callback per variant. Each variant invokes exactly the
// callback that matches it.
type cases[T any] struct {
	notAsked func()
	loading  func()
	success  func(T)
	failure  func(error)
}

type notAsked[T any] struct{}

func (notAsked[T]) tag() Tag { return TagNotAsked }
func (notAsked[T]) accept(c cases[T]) { c.notAsked() }

type loading[T any] struct{}

func (loading[T]) tag() Tag { return TagLoading }
func (loading[T]) accept(c cases[T]) { c.loading() }

type failure[T any] struct {
	err error
}

func (failure[T]) tag() Tag { return TagFailure }
func (f failure[T]) accept(c cases[T]) { c.failure(f.err) }

// SuccessState is a State that is known to be Success. Its data is always
// present.
type SuccessState[T any] struct {
	data T
}

// NewSuccessState wraps data as a SuccessState.
func NewSuccessState[T any](data T) SuccessState[T] {
	return SuccessState[T]{data: data}
}

func (ss SuccessState[T]) Get() T {
	return ss.data
}

// State widens ss back to a State.
func (ss SuccessState[T]) State() State[T] {
	return State[T]{v: ss}
}

func (SuccessState[T]) tag() Tag { return TagSuccess }
func (ss SuccessState[T]) accept(c cases[T]) { c.success(ss.data) }
