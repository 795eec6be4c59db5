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

package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/status"
)

type RunTestSuite struct {
	suite.Suite
}

func (s *RunTestSuite) TestExitCode() {
	tests := []struct {
		name   string
		result *command.Result
		want   int
	}{
		{
			name:   "success is zero",
			result: &command.Result{Status: status.Success},
			want:   0,
		},
		{
			name:   "warning is zero even with a non-zero code",
			result: &command.Result{ExitCode: 0, Stderr: "noise", Status: status.Warning},
			want:   0,
		},
		{
			name:   "failure keeps the raw code",
			result: &command.Result{ExitCode: 127, Status: status.CommandNotFound},
			want:   127,
		},
		{
			name:   "failure without a code is aborted",
			result: &command.Result{Status: status.Error},
			want:   ExitCodeAborted,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, exitCode(tt.result))
		})
	}
}

func (s *RunTestSuite) TestFailedResult() {
	res := failedResult(errors.New("spawn failed"))

	s.Equal(status.Error, res.Status)
	s.Equal(status.ExitCodeFailed, res.ExitCode)
	s.Equal("spawn failed", res.Stderr)
}

func (s *RunTestSuite) TestAbs() {
	s.Equal(99, abs(status.ExitCodeUnavailable))
	s.Equal(2, abs(2))
	s.Equal(0, abs(0))
}

func TestRunTestSuite(t *testing.T) {
	suite.Run(t, new(RunTestSuite))
}
