// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package errs classifies implant failures into a small set of kinds.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the origin of a failure.
type Kind string

const (
	// KindTransport is a network failure talking to the controller.
	KindTransport Kind = "transport"
	// KindAPI is a non-success response from the controller.
	KindAPI Kind = "api"
	// KindIO is a local filesystem or process-spawn failure.
	KindIO Kind = "io"
	// KindInternal is an encoding, decoding, or invariant failure.
	KindInternal Kind = "internal"
)

// Sentinel errors matched by errors.Is against any *Error of the same kind.
var (
	ErrTransport = errors.New("transport error")
	ErrAPI       = errors.New("api error")
	ErrIO        = errors.New("io error")
	ErrInternal  = errors.New("internal error")
)

// Error carries the failure kind, the operation that failed, and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.sentinel().Error())
	}

	return fmt.Sprintf("%s: %s: %s", e.Op, e.sentinel().Error(), e.Err.Error())
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for this error's kind.
func (e *Error) Is(
	target error,
) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindTransport:
		return ErrTransport
	case KindAPI:
		return ErrAPI
	case KindIO:
		return ErrIO
	default:
		return ErrInternal
	}
}

// Transport wraps err as a transport failure of op.
func Transport(
	op string,
	err error,
) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// API builds an api failure of op carrying the controller's message body.
func API(
	op string,
	status int,
	body string,
) error {
	return &Error{Kind: KindAPI, Op: op, Err: fmt.Errorf("status %d: %s", status, body)}
}

// IO wraps err as a local I/O failure of op.
func IO(
	op string,
	err error,
) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// Internal wraps err as an internal failure of op.
func Internal(
	op string,
	err error,
) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf reports the kind of err, or KindInternal when err carries none.
func KindOf(
	err error,
) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}
