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

// Package client provides the HTTP client for the OpenBAS controller API.
package client

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/net/http/httpproxy"

	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/telemetry"
)

const (
	// ConnectTimeout bounds the TCP connect of every request.
	ConnectTimeout = 2 * time.Second
	// DefaultTimeout bounds JSON calls when no timeout is configured.
	DefaultTimeout = 5 * time.Second
)

// UserAgent returns the User-Agent announced for version.
func UserAgent(
	version string,
) string {
	return "openbas-implant/" + version
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	appFs afero.Fs,
	appConfig config.Config,
	httpClient *http.Client,
) *Client {
	downloadClient := *httpClient
	downloadClient.Timeout = 0

	return &Client{
		logger:         logger.With("component", "client"),
		appFs:          appFs,
		baseURL:        strings.TrimSuffix(appConfig.API.URL, "/"),
		httpClient:     httpClient,
		downloadClient: &downloadClient,
	}
}

// NewHTTPClient factory to create the http.Client used for controller
// calls. A zero API timeout falls back to DefaultTimeout.
func NewHTTPClient(
	logger *slog.Logger,
	appConfig config.Config,
	userAgent string,
) *http.Client {
	dialer := &net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	base := &http.Transport{
		Proxy:               proxyFunc(appConfig.API.WithProxy),
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: appConfig.API.UnsecuredCertificate, //nolint:gosec
		},
	}

	timeout := DefaultTimeout
	if appConfig.API.Timeout > 0 {
		timeout = time.Duration(appConfig.API.Timeout) * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:       base,
			authHeader: "Bearer " + appConfig.API.Security.BearerToken,
			userAgent:  userAgent,
			logger:     logger,
		},
	}
}

// proxyFunc returns the environment proxy selector when enabled; requests
// go direct otherwise.
func proxyFunc(
	withProxy bool,
) func(*http.Request) (*url.URL, error) {
	if !withProxy {
		return nil
	}

	fromEnv := httpproxy.FromEnvironment().ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return fromEnv(req.URL)
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *authTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.authHeader)
	req.Header.Set("User-Agent", t.userAgent)
	telemetry.InjectTraceContextToHeader(req.Context(), req.Header)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Debug("http request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return nil, err
	}

	t.logger.Debug("http response",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// route builds an absolute URL from a path template whose %s verbs are
// filled with path-escaped params.
func (c *Client) route(
	template string,
	params ...pathParam,
) (string, error) {
	values := make([]any, 0, len(params))
	for _, p := range params {
		v, err := p.encode()
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}

	return c.baseURL + fmt.Sprintf(template, values...), nil
}
