// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package remote models the lifecycle of a value that is obtained
// asynchronously. A State is always exactly one of NotAsked, Loading, Success,
// or Failure. States are immutable; a transition is expressed by building a
// new State and replacing the old one. Sequencing transitions is left to the
// caller.
//
// The zero value of State is NotAsked.
package remote

import (
	"fmt"

	"gopkg.microglot.org/remote.go/optional"
)

type Tag uint8

const (
	TagNotAsked Tag = iota
	TagLoading
	TagSuccess
	TagFailure
)

func (t Tag) String() string {
	switch t {
	case TagNotAsked:
		return "NotAsked"
	case TagLoading:
		return "Loading"
	case TagSuccess:
		return "Success"
	case TagFailure:
		return "Failure"
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// State is the current stage of an asynchronous value of type T. States do
// not support ==; inspect them with Match, Get, or HasData.
type State[T any] struct {
	_ [0]func()
	v variant[T]
}

// NotAsked returns a State for a value that has not been requested.
func NotAsked[T any]() State[T] {
	return State[T]{v: notAsked[T]{}}
}

// Loading returns a State for a value that is being fetched or computed.
func Loading[T any]() State[T] {
	return State[T]{v: loading[T]{}}
}

// Success returns a State holding data. Any value of T is valid data,
// including its zero value.
func Success[T any](data T) State[T] {
	return State[T]{v: NewSuccessState(data)}
}

// Failure returns a State holding err. The error is stored as given and is
// never inspected by this package.
func Failure[T any](err error) State[T] {
	return State[T]{v: failure[T]{err: err}}
}

// FromResult converts a conventional (value, error) pair into a State. A
// non-nil err produces Failure and data is discarded.
func FromResult[T any](data T, err error) State[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(data)
}

func (s State[T]) variant() variant[T] {
	if s.v == nil {
		return notAsked[T]{}
	}
	return s.v
}

func (s State[T]) Tag() Tag {
	return s.variant().tag()
}

// HasData reports whether s is Success. When it is, the returned
// SuccessState gives direct access to the data.
func (s State[T]) HasData() (SuccessState[T], bool) {
	ss, ok := s.v.(SuccessState[T])
	return ss, ok
}

func (s State[T]) IsLoading() bool {
	return s.Tag() == TagLoading
}

// Get returns the data when s is Success and None otherwise.
func (s State[T]) Get() optional.Optional[T] {
	if ss, ok := s.HasData(); ok {
		return optional.Some(ss.Get())
	}
	return optional.None[T]()
}

// GetOr returns the data when s is Success and def otherwise. The decision
// depends only on the tag, so a Success holding a zero value returns that
// zero value.
func (s State[T]) GetOr(def T) T {
	return s.Get().ValueOr(def)
}

// Err returns the error when s is Failure.
func (s State[T]) Err() (error, bool) {
	f, ok := s.v.(failure[T])
	return f.err, ok
}

func (s State[T]) String() string {
	return Match(s,
		func() string { return TagNotAsked.String() },
		func() string { return TagLoading.String() },
		func(data T) string { return fmt.Sprintf("%s(%v)", TagSuccess, data) },
		func(err error) string { return fmt.Sprintf("%s(%v)", TagFailure, err) },
	)
}

// Map applies f to the data of a Success. Other states carry over unchanged,
// including the error of a Failure.
func Map[T any, U any](s State[T], f func(T) U) State[U] {
	return Match(s,
		NotAsked[U],
		Loading[U],
		func(data T) State[U] { return Success(f(data)) },
		Failure[U],
	)
}
