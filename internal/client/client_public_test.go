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

package client_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/payload"
)

type ClientPublicTestSuite struct {
	suite.Suite

	ctx    context.Context
	logger *slog.Logger
	appFs  afero.Fs
}

func (s *ClientPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	s.appFs = afero.NewMemMapFs()
}

func (s *ClientPublicTestSuite) newClient(
	serverURL string,
	timeout int,
) *client.Client {
	appConfig := config.Config{
		API: config.API{
			URL: serverURL + "/",
			Security: config.ClientSecurity{
				BearerToken: "test-token",
			},
			Timeout: timeout,
		},
	}

	hc := client.NewHTTPClient(s.logger, appConfig, client.UserAgent("1.2.3"))

	return client.New(s.logger, s.appFs, appConfig, hc)
}

func (s *ClientPublicTestSuite) TestNewHTTPClient() {
	tests := []struct {
		name        string
		timeout     int
		wantTimeout time.Duration
	}{
		{
			name:        "zero timeout falls back to default",
			timeout:     0,
			wantTimeout: client.DefaultTimeout,
		},
		{
			name:        "configured timeout",
			timeout:     30,
			wantTimeout: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			appConfig := config.Config{
				API: config.API{
					URL:                  "https://openbas.example.com",
					Timeout:              tt.timeout,
					UnsecuredCertificate: true,
					WithProxy:            true,
				},
			}

			hc := client.NewHTTPClient(s.logger, appConfig, client.UserAgent("dev"))

			s.Equal(tt.wantTimeout, hc.Timeout)
			s.NotNil(hc.Transport)
		})
	}
}

func (s *ClientPublicTestSuite) TestUserAgent() {
	s.Equal("openbas-implant/1.2.3", client.UserAgent("1.2.3"))
}

func (s *ClientPublicTestSuite) TestGetExecutablePayload() {
	tests := []struct {
		name        string
		injectID    string
		wantPath    string
		handler     func(w http.ResponseWriter)
		wantErr     error
		errContains string
		validate    func(*payload.Contract)
	}{
		{
			name:     "decodes contract",
			injectID: "inject-1",
			wantPath: "/api/injects/inject-1/agent-1/executable-payload",
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"payload_type": "Command",
					"command_executor": "bash",
					"command_content": "ZWNobyBoaQ==",
					"payload_arguments": [{"type": "text", "key": "greeting", "default_value": "hi"}]
				}`))
			},
			validate: func(c *payload.Contract) {
				s.Equal(payload.KindCommand, c.Type)
				content, executor, ok := c.Command()
				s.True(ok)
				s.Equal("ZWNobyBoaQ==", content)
				s.Equal("bash", executor)
				s.Equal(map[string]string{"greeting": "hi"}, c.Defaults())
			},
		},
		{
			name:     "path params are escaped",
			injectID: "inject 1",
			wantPath: "/api/injects/inject%201/agent-1/executable-payload",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"payload_type": "FileDrop"}`))
			},
			validate: func(c *payload.Contract) {
				s.Equal(payload.KindFileDrop, c.Type)
			},
		},
		{
			name:     "non-success carries body as api error",
			injectID: "inject-1",
			wantPath: "/api/injects/inject-1/agent-1/executable-payload",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("inject not found"))
			},
			wantErr:     errs.ErrAPI,
			errContains: "status 404: inject not found",
		},
		{
			name:     "empty error body",
			injectID: "inject-1",
			wantPath: "/api/injects/inject-1/agent-1/executable-payload",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:     errs.ErrAPI,
			errContains: "Unknown error",
		},
		{
			name:     "malformed json is internal",
			injectID: "inject-1",
			wantPath: "/api/injects/inject-1/agent-1/executable-payload",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"payload_type":`))
			},
			wantErr: errs.ErrInternal,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var (
				gotPath   string
				gotAuth   string
				gotAgent  string
				gotMethod string
			)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				gotAuth = r.Header.Get("Authorization")
				gotAgent = r.Header.Get("User-Agent")
				gotMethod = r.Method
				tt.handler(w)
			}))
			defer server.Close()

			c := s.newClient(server.URL, 5)
			got, err := c.GetExecutablePayload(s.ctx, tt.injectID, "agent-1")

			s.Equal(tt.wantPath, gotPath)
			s.Equal("Bearer test-token", gotAuth)
			s.Equal("openbas-implant/1.2.3", gotAgent)
			s.Equal(http.MethodGet, gotMethod)

			if tt.wantErr != nil {
				s.Error(err)
				s.ErrorIs(err, tt.wantErr)
				if tt.errContains != "" {
					s.Contains(err.Error(), tt.errContains)
				}
				s.Nil(got)
				return
			}

			s.NoError(err)
			s.Require().NotNil(got)
			tt.validate(got)
		})
	}
}

func (s *ClientPublicTestSuite) TestGetExecutablePayloadTransportError() {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	serverURL := server.URL
	server.Close()

	c := s.newClient(serverURL, 5)
	got, err := c.GetExecutablePayload(s.ctx, "inject-1", "agent-1")

	s.Error(err)
	s.ErrorIs(err, errs.ErrTransport)
	s.Nil(got)
}

func (s *ClientPublicTestSuite) TestGetExecutablePayloadTimeout() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(1500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"payload_type": "Command"}`))
	}))
	defer server.Close()

	c := s.newClient(server.URL, 1)
	got, err := c.GetExecutablePayload(s.ctx, "inject-1", "agent-1")

	s.Error(err)
	s.ErrorIs(err, errs.ErrTransport)
	s.Nil(got)
}

func (s *ClientPublicTestSuite) TestUpdateStatus() {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{
			name:       "posts callback",
			statusCode: http.StatusOK,
		},
		{
			name:       "rejected callback is api error",
			statusCode: http.StatusBadRequest,
			wantErr:    errs.ErrAPI,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var (
				gotPath        string
				gotMethod      string
				gotContentType string
				gotBody        client.UpdateInput
			)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotMethod = r.Method
				gotContentType = r.Header.Get("Content-Type")
				body, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(body, &gotBody)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"inject_id": "inject-1"}`))
			}))
			defer server.Close()

			input := client.UpdateInput{
				ExecutionMessage: client.ExecutionOutput{
					Action: "implant execution",
					Stdout: "hi\n",
				}.JSON(),
				ExecutionStatus:   "SUCCESS",
				ExecutionAction:   "command_execution",
				ExecutionDuration: 42,
			}

			c := s.newClient(server.URL, 5)
			err := c.UpdateStatus(s.ctx, "inject-1", "agent-1", input)

			s.Equal("/api/injects/execution/agent-1/callback/inject-1", gotPath)
			s.Equal(http.MethodPost, gotMethod)
			s.Equal("application/json", gotContentType)
			s.Equal(input, gotBody)

			if tt.wantErr != nil {
				s.Error(err)
				s.ErrorIs(err, tt.wantErr)
				return
			}

			s.NoError(err)
		})
	}
}

func (s *ClientPublicTestSuite) TestUpdateStatusUnknownStatus() {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := s.newClient(server.URL, 5)
	err := c.UpdateStatus(s.ctx, "inject-1", "agent-1", client.UpdateInput{
		ExecutionStatus: "PENDING",
		ExecutionAction: "complete",
	})

	s.ErrorIs(err, errs.ErrInternal)
	s.Contains(err.Error(), `unknown execution status "PENDING"`)
	s.False(called)
}

func (s *ClientPublicTestSuite) TestExecutionOutputJSON() {
	out := client.ExecutionOutput{
		Action:   "dns resolution",
		Stdout:   "a.example: 192.0.2.1",
		Stderr:   "",
		ExitCode: 0,
	}

	s.JSONEq(
		`{"action":"dns resolution","stdout":"a.example: 192.0.2.1","stderr":"","exit_code":0}`,
		out.JSON(),
	)
}

func (s *ClientPublicTestSuite) TestDownloadFile() {
	tests := []struct {
		name        string
		inMemory    bool
		handler     func(w http.ResponseWriter)
		wantErr     error
		wantName    string
		wantFile    bool
		wantContent string
	}{
		{
			name: "writes document into dir",
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Disposition", `attachment; filename="payload.sh"`)
				_, _ = w.Write([]byte("echo dropped\n"))
			},
			wantName:    "payload.sh",
			wantFile:    true,
			wantContent: "echo dropped\n",
		},
		{
			name: "rfc 5987 filename",
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''na%C3%AFve%20tool.ps1`)
				_, _ = w.Write([]byte("Write-Output hi"))
			},
			wantName:    "naïve tool.ps1",
			wantFile:    true,
			wantContent: "Write-Output hi",
		},
		{
			name:     "in memory download leaves no file",
			inMemory: true,
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Disposition", `attachment; filename="memory.bin"`)
				_, _ = w.Write([]byte("in memory"))
			},
			wantName:    "memory.bin",
			wantContent: "in memory",
		},
		{
			name: "missing content disposition",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte("data"))
			},
			wantErr: errs.ErrInternal,
		},
		{
			name: "missing document",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("document not found"))
			},
			wantErr: errs.ErrAPI,
		},
		{
			name: "interrupted transfer removes partial file",
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Disposition", `attachment; filename="partial.bin"`)
				w.Header().Set("Content-Length", "1024")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("short"))
				w.(http.Flusher).Flush()
				panic(http.ErrAbortHandler)
			},
			wantErr: errs.ErrIO,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.appFs = afero.NewMemMapFs()
			s.Require().NoError(s.appFs.MkdirAll("/opt/implant", 0o755))

			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				tt.handler(w)
			}))
			defer server.Close()

			c := s.newClient(server.URL, 5)
			got, err := c.DownloadFile(s.ctx, "doc-1", "/opt/implant", tt.inMemory)

			s.Equal("/api/documents/doc-1/file", gotPath)

			if tt.wantErr != nil {
				s.Error(err)
				s.ErrorIs(err, tt.wantErr)
				s.Nil(got)

				entries, readErr := afero.ReadDir(s.appFs, "/opt/implant")
				s.NoError(readErr)
				s.Empty(entries)
				return
			}

			s.NoError(err)
			s.Require().NotNil(got)
			s.Equal(tt.wantName, got.Name)
			s.Equal(int64(len(tt.wantContent)), got.Size)

			if tt.wantFile {
				s.Equal("/opt/implant/"+tt.wantName, got.Path)
				content, readErr := afero.ReadFile(s.appFs, got.Path)
				s.NoError(readErr)
				s.Equal(tt.wantContent, string(content))
				s.Nil(got.Data)
				return
			}

			s.Empty(got.Path)
			s.Equal(tt.wantContent, string(got.Data))
			entries, readErr := afero.ReadDir(s.appFs, "/opt/implant")
			s.NoError(readErr)
			s.Empty(entries)
		})
	}
}

func (s *ClientPublicTestSuite) TestDownloadFileIgnoresRequestTimeout() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(1500 * time.Millisecond)
		w.Header().Set("Content-Disposition", `attachment; filename="slow.bin"`)
		_, _ = w.Write([]byte("slow"))
	}))
	defer server.Close()

	c := s.newClient(server.URL, 1)
	got, err := c.DownloadFile(s.ctx, "doc-1", "/", true)

	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal("slow", string(got.Data))
}

func (s *ClientPublicTestSuite) TestFilename() {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{
			name:   "quoted filename",
			header: `attachment; filename="payload.sh"`,
			want:   "payload.sh",
			ok:     true,
		},
		{
			name:   "percent encoded filename",
			header: `attachment; filename="my%20payload.exe"`,
			want:   "my payload.exe",
			ok:     true,
		},
		{
			name:   "extended filename wins",
			header: `attachment; filename="fallback.txt"; filename*=UTF-8''r%C3%A9sum%C3%A9.txt`,
			want:   "résumé.txt",
			ok:     true,
		},
		{
			name:   "literal percent is kept",
			header: `attachment; filename="100%.txt"`,
			want:   "100%.txt",
			ok:     true,
		},
		{
			name:   "directories are stripped",
			header: `attachment; filename="../../etc/passwd"`,
			want:   "passwd",
			ok:     true,
		},
		{
			name:   "windows directories are stripped",
			header: `attachment; filename="C:\\temp\\tool.ps1"`,
			want:   "tool.ps1",
			ok:     true,
		},
		{
			name:   "no filename parameter",
			header: `attachment`,
		},
		{
			name:   "dot dot only",
			header: `attachment; filename=".."`,
		},
		{
			name:   "empty header",
			header: "",
		},
		{
			name:   "malformed header",
			header: `attachment; filename=`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := client.Filename(tt.header)

			if !tt.ok {
				s.Error(err)
				s.ErrorIs(err, errs.ErrInternal)
				s.Empty(got)
				return
			}

			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func TestClientPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ClientPublicTestSuite))
}
