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

package config_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/config"
)

type ConfigPublicTestSuite struct {
	suite.Suite
}

func validConfig() config.Config {
	return config.Config{
		API: config.API{
			URL: "https://openbas.example.com",
			Security: config.ClientSecurity{
				BearerToken: "test-bearer-token",
			},
			Timeout: 5,
		},
		Implant: config.Implant{
			AgentID:  "agent-1",
			InjectID: "inject-1",
		},
	}
}

func (s *ConfigPublicTestSuite) TestValidate() {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(_ *config.Config) {},
		},
		{
			name: "valid config with args and tracing",
			mutate: func(c *config.Config) {
				c.Implant.Args = map[string]string{"greeting": "hi", "target.host": "10.0.0.1"}
				c.Telemetry.Tracing.Exporter = "stdout"
			},
		},
		{
			name: "missing bearer token",
			mutate: func(c *config.Config) {
				c.API.Security.BearerToken = ""
			},
			expectError: true,
			errContains: "BearerToken",
		},
		{
			name: "missing url",
			mutate: func(c *config.Config) {
				c.API.URL = ""
			},
			expectError: true,
			errContains: "URL",
		},
		{
			name: "invalid url",
			mutate: func(c *config.Config) {
				c.API.URL = "not a url"
			},
			expectError: true,
			errContains: "URL",
		},
		{
			name: "missing agent id",
			mutate: func(c *config.Config) {
				c.Implant.AgentID = ""
			},
			expectError: true,
			errContains: "AgentID",
		},
		{
			name: "missing inject id",
			mutate: func(c *config.Config) {
				c.Implant.InjectID = ""
			},
			expectError: true,
			errContains: "InjectID",
		},
		{
			name: "negative timeout",
			mutate: func(c *config.Config) {
				c.Implant.Timeout = -1
			},
			expectError: true,
			errContains: "Timeout",
		},
		{
			name: "invalid argument key",
			mutate: func(c *config.Config) {
				c.Implant.Args = map[string]string{"bad key": "x"}
			},
			expectError: true,
			errContains: "arg_key",
		},
		{
			name: "unknown tracing exporter",
			mutate: func(c *config.Config) {
				c.Telemetry.Tracing.Exporter = "jaeger"
			},
			expectError: true,
			errContains: "Exporter",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			c := validConfig()
			tt.mutate(&c)

			err := config.Validate(&c)

			if tt.expectError {
				s.Error(err)
				s.Contains(err.Error(), tt.errContains)
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *ConfigPublicTestSuite) TestMasked() {
	c := validConfig()
	c.API.Security.BearerToken = "super-secret-token-value"

	masked, err := config.Masked(c)

	s.NoError(err)
	s.NotNil(masked)
	s.NotContains(fmt.Sprintf("%+v", masked), "super-secret-token-value")
	s.Contains(fmt.Sprintf("%+v", masked), "agent-1")
	s.Equal("super-secret-token-value", c.API.Security.BearerToken)
}

func (s *ConfigPublicTestSuite) TestParseArgs() {
	tests := []struct {
		name        string
		pairs       []string
		want        map[string]string
		expectError bool
	}{
		{
			name:  "parses pairs",
			pairs: []string{"greeting=hi", "target=10.0.0.1"},
			want:  map[string]string{"greeting": "hi", "target": "10.0.0.1"},
		},
		{
			name:  "value may contain equals and be empty",
			pairs: []string{"query=a=b", "empty="},
			want:  map[string]string{"query": "a=b", "empty": ""},
		},
		{
			name:  "later pair wins",
			pairs: []string{"k=1", "k=2"},
			want:  map[string]string{"k": "2"},
		},
		{
			name:  "no pairs",
			pairs: nil,
			want:  map[string]string{},
		},
		{
			name:        "missing separator",
			pairs:       []string{"greeting"},
			expectError: true,
		},
		{
			name:        "empty key",
			pairs:       []string{"=hi"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := config.ParseArgs(tt.pairs)

			if tt.expectError {
				s.Error(err)
				s.Nil(got)
				return
			}

			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func TestConfigPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigPublicTestSuite))
}
