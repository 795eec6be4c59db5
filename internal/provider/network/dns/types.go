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

// Package dns resolves payload hostnames to addresses.
package dns

import (
	"context"
	"errors"
	"log/slog"
)

//go:generate mockgen -source=types.go -destination=mocks/types.gen.go -package=mocks

// ErrEmptyHostname is returned when there is nothing to resolve.
var ErrEmptyHostname = errors.New("empty hostname")

// Provider resolves hostnames.
type Provider interface {
	// Resolve returns the addresses hostname resolves to.
	Resolve(ctx context.Context, hostname string) ([]string, error)
}

// Lookup is the subset of *net.Resolver used by Resolver.
type Lookup interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Resolver implements Provider.
type Resolver struct {
	logger *slog.Logger
	lookup Lookup
}
