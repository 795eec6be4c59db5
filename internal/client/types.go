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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spf13/afero"
)

// Client talks to the controller API on behalf of one agent.
type Client struct {
	logger         *slog.Logger
	appFs          afero.Fs
	baseURL        string
	httpClient     *http.Client
	downloadClient *http.Client
}

// authTransport adds the bearer token, user agent and trace context to
// every request.
type authTransport struct {
	base       http.RoundTripper
	authHeader string
	userAgent  string
	logger     *slog.Logger
}

// ExecutionOutput is the structured message attached to a status update.
type ExecutionOutput struct {
	Action   string `json:"action"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// JSON renders the output as the execution_message string.
func (o ExecutionOutput) JSON() string {
	// Cannot error: every field is a string or an int.
	b, _ := json.Marshal(o)

	return string(b)
}

// UpdateInput is the body of an execution callback.
type UpdateInput struct {
	ExecutionMessage  string `json:"execution_message"`
	ExecutionStatus   string `json:"execution_status"`
	ExecutionAction   string `json:"execution_action"`
	ExecutionDuration int64  `json:"execution_duration"`
}

// Download describes a fetched document.
type Download struct {
	// Name is the filename announced by the controller.
	Name string
	// Path is where the document was written; empty for in-memory downloads.
	Path string
	// Size is the number of bytes received.
	Size int64
	// Data holds the document for in-memory downloads.
	Data []byte
}
