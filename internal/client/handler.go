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

package client

import (
	"context"

	"github.com/retr0h/obas-implant/internal/payload"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler.gen.go -package=mocks

// Handler defines the controller operations used by a payload run.
type Handler interface {
	// GetExecutablePayload fetches the payload contract for injectID and agentID.
	GetExecutablePayload(
		ctx context.Context,
		injectID string,
		agentID string,
	) (*payload.Contract, error)
	// UpdateStatus posts one execution callback.
	UpdateStatus(
		ctx context.Context,
		injectID string,
		agentID string,
		input UpdateInput,
	) error
	// DownloadFile fetches a document into dir, or into memory when inMemory.
	DownloadFile(
		ctx context.Context,
		documentID string,
		dir string,
		inMemory bool,
	) (*Download, error)
}
