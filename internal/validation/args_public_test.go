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

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/validation"
)

type ArgsPublicTestSuite struct {
	suite.Suite
}

type argsInput struct {
	Args map[string]string `validate:"dive,keys,arg_key,endkeys"`
}

func (s *ArgsPublicTestSuite) TestArgKey() {
	tests := []struct {
		name     string
		input    argsInput
		wantOK   bool
		contains []string
	}{
		{
			name:   "when keys are placeholder names",
			input:  argsInput{Args: map[string]string{"greeting": "hi", "target.host": "x", "A_b-9": ""}},
			wantOK: true,
		},
		{
			name:   "when no args",
			input:  argsInput{},
			wantOK: true,
		},
		{
			name:     "when key contains a space",
			input:    argsInput{Args: map[string]string{"bad key": "x"}},
			wantOK:   false,
			contains: []string{"arg_key", `argument key "bad key"`},
		},
		{
			name:     "when key contains a brace",
			input:    argsInput{Args: map[string]string{"a}b": "x"}},
			wantOK:   false,
			contains: []string{"arg_key"},
		},
		{
			name:     "when key is empty",
			input:    argsInput{Args: map[string]string{"": "x"}},
			wantOK:   false,
			contains: []string{"arg_key"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			errMsg, ok := validation.Struct(tt.input)
			s.Equal(tt.wantOK, ok)

			for _, c := range tt.contains {
				s.Contains(errMsg, c)
			}
		})
	}
}

func (s *ArgsPublicTestSuite) TestArgKeyVar() {
	_, ok := validation.Var("location", "arg_key")
	s.True(ok)

	errMsg, ok := validation.Var("#{x}", "arg_key")
	s.False(ok)
	s.Contains(errMsg, "arg_key")
}

func TestArgsPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ArgsPublicTestSuite))
}
