// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package optional provides a value that is either present or absent. Absence
// is tracked separately from the value so that a present zero value, such as
// 0 or "", is never mistaken for a missing one.
package optional

type Optional[T any] struct {
	present bool
	value   T
}

// IsPresent reports whether the Optional holds a value.
func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the held value or the zero value of T when absent. Check
// IsPresent first when the zero value is meaningful.
func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the held value along with its presence.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// ValueOr returns the held value or v when absent.
func (self Optional[T]) ValueOr(v T) T {
	if !self.present {
		return v
	}
	return self.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
