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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/status"
)

// UpdateStatus posts one execution callback. A status outside the
// execution status vocabulary is rejected before anything is sent.
func (c *Client) UpdateStatus(
	ctx context.Context,
	injectID string,
	agentID string,
	input UpdateInput,
) error {
	const op = "update status"

	if !status.Status(input.ExecutionStatus).Valid() {
		return errs.Internal(op, fmt.Errorf("unknown execution status %q", input.ExecutionStatus))
	}

	endpoint, err := c.route(
		"/api/injects/execution/%s/callback/%s",
		pathParam{name: "agent_id", value: agentID},
		pathParam{name: "inject_id", value: injectID},
	)
	if err != nil {
		return errs.Internal(op, err)
	}

	body, err := json.Marshal(input)
	if err != nil {
		return errs.Internal(op, err)
	}

	req, err := newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body), op)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(c.httpClient, req, op)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("status updated",
		slog.String("action", input.ExecutionAction),
		slog.String("status", input.ExecutionStatus),
	)

	return nil
}
