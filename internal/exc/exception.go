// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package exc defines the coded error descriptors that fetches publish as the
// payload of a failed remote.State.
package exc

import (
	"context"
	"errors"
	"fmt"
)

type Exception interface {
	error
	Code() string
	Message() string
	// Detail is optional free-form context, such as the target that failed.
	Detail() string
}

type exc struct {
	code    string
	message string
	detail  string
}

func (e *exc) Error() string {
	if e.detail == "" {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s -- %s: %s", e.detail, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Detail() string {
	return e.detail
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(code string, message string) Exception {
	return &exc{
		message: message,
		code:    code,
	}
}

// NewDetail is New with an attached detail string.
func NewDetail(code string, message string, detail string) Exception {
	return &exc{
		message: message,
		code:    code,
		detail:  detail,
	}
}

// Wrap converts err into an Exception with the given code. The original error
// remains reachable through errors.Unwrap. Wrapping nil returns nil.
func Wrap(code string, detail string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: NewDetail(code, e.Message(), detail),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: NewDetail(code, err.Error(), detail),
	}
}

func WrapUnknown(detail string, err error) Exception {
	return Wrap(CodeUnknown, detail, err)
}

// FromContext wraps err with a code derived from the context error it
// carries, if any.
func FromContext(detail string, err error) Exception {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeTimeout, detail, err)
	case errors.Is(err, context.Canceled):
		return Wrap(CodeCanceled, detail, err)
	}
	if e, ok := err.(Exception); ok {
		return e
	}
	return WrapUnknown(detail, err)
}
