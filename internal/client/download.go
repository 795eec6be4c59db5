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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/retr0h/obas-implant/internal/errs"
)

// ErrFilenameNotFound is returned when a download carries no usable filename.
var ErrFilenameNotFound = errors.New("filename not found")

// DownloadFile fetches a document. The file is written into dir unless
// inMemory is set, in which case the bytes are returned in Download.Data.
// A partially written file is removed.
func (c *Client) DownloadFile(
	ctx context.Context,
	documentID string,
	dir string,
	inMemory bool,
) (*Download, error) {
	const op = "download file"

	endpoint, err := c.route(
		"/api/documents/%s/file",
		pathParam{name: "document_id", value: documentID},
	)
	if err != nil {
		return nil, errs.Internal(op, err)
	}

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, op)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(c.downloadClient, req, op)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	name, err := Filename(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return nil, err
	}

	if inMemory {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errs.IO(op, err)
		}

		return &Download{Name: name, Size: int64(len(data)), Data: data}, nil
	}

	target := filepath.Join(dir, name)
	f, err := c.appFs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errs.IO(op, err)
	}

	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = c.appFs.Remove(target)
		return nil, errs.IO(op, fmt.Errorf("write %s: %w", target, err))
	}

	c.logger.Debug("document downloaded",
		slog.String("document_id", documentID),
		slog.String("path", target),
		slog.Int64("size", n),
	)

	return &Download{Name: name, Path: target, Size: n}, nil
}

// Filename extracts the filename from a Content-Disposition header. RFC 5987
// filename* values take precedence over filename; the result is
// percent-decoded and reduced to its base name.
func Filename(
	contentDisposition string,
) (string, error) {
	const op = "parse content disposition"

	if strings.TrimSpace(contentDisposition) == "" {
		return "", errs.Internal(op, ErrFilenameNotFound)
	}

	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return "", errs.Internal(op, err)
	}

	name := params["filename"]
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", errs.Internal(op, ErrFilenameNotFound)
	}

	return name, nil
}
