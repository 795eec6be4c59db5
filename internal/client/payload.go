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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/payload"
)

// GetExecutablePayload fetches the payload contract for injectID and agentID.
func (c *Client) GetExecutablePayload(
	ctx context.Context,
	injectID string,
	agentID string,
) (*payload.Contract, error) {
	const op = "get executable payload"

	endpoint, err := c.route(
		"/api/injects/%s/%s/executable-payload",
		pathParam{name: "inject_id", value: injectID},
		pathParam{name: "agent_id", value: agentID},
	)
	if err != nil {
		return nil, errs.Internal(op, err)
	}

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, op)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(c.httpClient, req, op)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var contract payload.Contract
	if err := json.NewDecoder(resp.Body).Decode(&contract); err != nil {
		return nil, errs.Internal(op, err)
	}

	c.logger.Debug("fetched payload",
		slog.String("inject_id", injectID),
		slog.String("type", string(contract.Type)),
	)

	return &contract, nil
}
