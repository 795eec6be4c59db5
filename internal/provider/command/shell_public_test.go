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

package command_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/obas-implant/internal/provider/command"
)

type ShellPublicTestSuite struct {
	suite.Suite
}

func (s *ShellPublicTestSuite) TestSelectShell() {
	powershellWindowsFlags := []string{
		"-ExecutionPolicy",
		"Bypass",
		"-WindowStyle",
		"Hidden",
		"-NonInteractive",
		"-NoProfile",
		"-Command",
	}

	tests := []struct {
		name       string
		goos       string
		executor   string
		command    string
		wantName   string
		wantBinary string
		wantArgs   []string
	}{
		{
			name:       "bash on linux",
			goos:       "linux",
			executor:   "bash",
			command:    "echo hi",
			wantName:   "bash",
			wantBinary: "bash",
			wantArgs:   []string{"-c", "echo hi"},
		},
		{
			name:       "sh keeps multi-line script as one argument",
			goos:       "darwin",
			executor:   "sh",
			command:    "echo a\necho 'b c'",
			wantName:   "sh",
			wantBinary: "sh",
			wantArgs:   []string{"-c", "echo a\necho 'b c'"},
		},
		{
			name:       "executor name is normalized",
			goos:       "linux",
			executor:   "  BASH ",
			command:    "id",
			wantName:   "bash",
			wantBinary: "bash",
			wantArgs:   []string{"-c", "id"},
		},
		{
			name:       "unknown executor on linux falls back to sh",
			goos:       "linux",
			executor:   "zsh",
			command:    "id",
			wantName:   "sh",
			wantBinary: "sh",
			wantArgs:   []string{"-c", "id"},
		},
		{
			name:       "cmd outside windows falls back to sh",
			goos:       "linux",
			executor:   "cmd",
			command:    "id",
			wantName:   "sh",
			wantBinary: "sh",
			wantArgs:   []string{"-c", "id"},
		},
		{
			name:       "cmd on windows propagates error level",
			goos:       "windows",
			executor:   "cmd",
			command:    "whoami",
			wantName:   "cmd",
			wantBinary: "cmd",
			wantArgs:   []string{"/d", "/s", "/c", "setlocal & whoami & exit /b errorlevel"},
		},
		{
			name:       "powershell on windows",
			goos:       "windows",
			executor:   "powershell",
			command:    "Get-Process",
			wantName:   "powershell",
			wantBinary: "powershell",
			wantArgs: append(
				append([]string{}, powershellWindowsFlags...),
				"$ErrorActionPreference = 'Stop'; Get-Process ; exit $LASTEXITCODE",
			),
		},
		{
			name:       "psh alias on windows",
			goos:       "windows",
			executor:   "psh",
			command:    "hostname",
			wantName:   "powershell",
			wantBinary: "powershell",
			wantArgs: append(
				append([]string{}, powershellWindowsFlags...),
				"$ErrorActionPreference = 'Stop'; hostname ; exit $LASTEXITCODE",
			),
		},
		{
			name:       "unknown executor on windows falls back to powershell",
			goos:       "windows",
			executor:   "fish",
			command:    "dir",
			wantName:   "powershell",
			wantBinary: "powershell",
			wantArgs: append(
				append([]string{}, powershellWindowsFlags...),
				"$ErrorActionPreference = 'Stop'; dir ; exit $LASTEXITCODE",
			),
		},
		{
			name:       "powershell outside windows uses pwsh without windows flags",
			goos:       "linux",
			executor:   "psh",
			command:    "Get-Date",
			wantName:   "powershell",
			wantBinary: "pwsh",
			wantArgs:   []string{"-c", "$ErrorActionPreference = 'Stop'; Get-Date ; exit $LASTEXITCODE"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			shell := command.SelectShell(tt.goos, tt.executor)

			s.Equal(tt.wantName, shell.Name())
			s.Equal(tt.wantBinary, shell.Binary())
			s.Equal(tt.wantArgs, shell.Args(tt.command))
		})
	}
}

func (s *ShellPublicTestSuite) TestCommandLine() {
	tests := []struct {
		name     string
		goos     string
		executor string
		command  string
		wantLine string
		wantOK   bool
	}{
		{
			name:     "cmd keeps quoted paths intact",
			goos:     "windows",
			executor: "cmd",
			command:  `dir "C:\Program Files"`,
			wantLine: `cmd /d /s /c "setlocal & dir "C:\Program Files" & exit /b errorlevel"`,
			wantOK:   true,
		},
		{
			name:     "cmd keeps inner quotes and metacharacters",
			goos:     "windows",
			executor: "cmd",
			command:  `echo "a & b" > "%TEMP%\out.txt"`,
			wantLine: `cmd /d /s /c "setlocal & echo "a & b" > "%TEMP%\out.txt" & exit /b errorlevel"`,
			wantOK:   true,
		},
		{
			name:     "powershell uses the argument vector",
			goos:     "windows",
			executor: "powershell",
			command:  "Get-Process",
		},
		{
			name:     "posix shells use the argument vector",
			goos:     "linux",
			executor: "bash",
			command:  "id",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			liner, ok := command.SelectShell(tt.goos, tt.executor).(command.CommandLiner)

			s.Equal(tt.wantOK, ok)
			if ok {
				s.Equal(tt.wantLine, liner.CommandLine(tt.command))
			}
		})
	}
}

func TestShellPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ShellPublicTestSuite))
}
