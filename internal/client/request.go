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
	"io"
	"net/http"
	"strings"

	"github.com/retr0h/obas-implant/internal/errs"
)

// maxErrorBody caps how much of a failed response is kept as the message.
const maxErrorBody = 64 << 10

// do sends req and turns transport failures and non-2xx responses into
// classified errors. The caller closes the body of a returned response.
func (c *Client) do(
	hc *http.Client,
	req *http.Request,
	op string,
) (*http.Response, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errs.Transport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "Unknown error"
		}

		return nil, errs.API(op, resp.StatusCode, msg)
	}

	return resp, nil
}

func newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
	op string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errs.Internal(op, err)
	}

	return req, nil
}
