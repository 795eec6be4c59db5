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

package dns_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/provider/network/dns"
)

type fakeLookup struct {
	hosts map[string][]string
	asked []string
}

func (f *fakeLookup) LookupHost(
	_ context.Context,
	host string,
) ([]string, error) {
	f.asked = append(f.asked, host)
	addrs, ok := f.hosts[host]
	if !ok {
		return nil, errors.New("no such host")
	}

	return addrs, nil
}

type ResolverPublicTestSuite struct {
	suite.Suite

	ctx    context.Context
	logger *slog.Logger
}

func (s *ResolverPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (s *ResolverPublicTestSuite) TestResolve() {
	tests := []struct {
		name          string
		hostname      string
		hosts         map[string][]string
		want          []string
		wantAsked     []string
		expectError   bool
		errorContains string
	}{
		{
			name:      "resolves addresses",
			hostname:  "a.example",
			hosts:     map[string][]string{"a.example": {"192.0.2.1", "2001:db8::1"}},
			want:      []string{"192.0.2.1", "2001:db8::1"},
			wantAsked: []string{"a.example"},
		},
		{
			name:      "drops duplicate addresses",
			hostname:  " a.example ",
			hosts:     map[string][]string{"a.example": {"192.0.2.1", "192.0.2.1", "192.0.2.2"}},
			want:      []string{"192.0.2.1", "192.0.2.2"},
			wantAsked: []string{"a.example"},
		},
		{
			name:      "internationalized name is looked up in ascii form",
			hostname:  "bücher.example",
			hosts:     map[string][]string{"xn--bcher-kva.example": {"192.0.2.7"}},
			want:      []string{"192.0.2.7"},
			wantAsked: []string{"xn--bcher-kva.example"},
		},
		{
			name:          "lookup failure",
			hostname:      "b.invalid",
			hosts:         map[string][]string{},
			wantAsked:     []string{"b.invalid"},
			expectError:   true,
			errorContains: "failed to resolve b.invalid",
		},
		{
			name:          "empty hostname",
			hostname:      "   ",
			expectError:   true,
			errorContains: "empty hostname",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			lookup := &fakeLookup{hosts: tt.hosts}
			r := dns.NewWithLookup(s.logger, lookup)

			got, err := r.Resolve(s.ctx, tt.hostname)

			s.Equal(tt.wantAsked, lookup.asked)
			if tt.expectError {
				s.Error(err)
				s.Contains(err.Error(), tt.errorContains)
				s.Nil(got)
				return
			}

			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func (s *ResolverPublicTestSuite) TestFormat() {
	s.Equal("a.example: 192.0.2.1, 2001:db8::1",
		dns.Format("a.example", []string{"192.0.2.1", "2001:db8::1"}))
	s.Equal("a.example: ", dns.Format("a.example", nil))
}

func (s *ResolverPublicTestSuite) TestHostnames() {
	tests := []struct {
		name string
		list string
		want []string
	}{
		{
			name: "newline separated",
			list: "a.example\nb.invalid",
			want: []string{"a.example", "b.invalid"},
		},
		{
			name: "blank lines and carriage returns dropped",
			list: "a.example\r\n\n  \nb.example\n",
			want: []string{"a.example", "b.example"},
		},
		{
			name: "empty list",
			list: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, dns.Hostnames(tt.list))
		})
	}
}

func TestResolverPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverPublicTestSuite))
}
