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

package command

import (
	"fmt"
	"strings"
)

// Executor names accepted in payload contracts.
const (
	ExecutorBash       = "bash"
	ExecutorSh         = "sh"
	ExecutorCmd        = "cmd"
	ExecutorPowerShell = "powershell"
	ExecutorPsh        = "psh"
)

const goosWindows = "windows"

// Shell turns a command into the program and argument vector that runs it
// with the shell's own quoting and exit code semantics.
type Shell interface {
	// Name is the normalized executor name.
	Name() string
	// Binary is the program spawned for this shell.
	Binary() string
	// Args returns the arguments that run command and exit with its code.
	Args(command string) []string
}

// CommandLiner is implemented by shells that parse their own command line.
// The line is passed to the OS verbatim instead of being rebuilt from Args.
type CommandLiner interface {
	CommandLine(command string) string
}

// SelectShell picks the shell strategy for executor on goos. psh is an
// alias for PowerShell; unknown names fall back to PowerShell on Windows
// and sh elsewhere.
func SelectShell(
	goos string,
	executor string,
) Shell {
	windows := goos == goosWindows

	switch strings.ToLower(strings.TrimSpace(executor)) {
	case ExecutorBash:
		return &posixShell{name: ExecutorBash}
	case ExecutorSh:
		return &posixShell{name: ExecutorSh}
	case ExecutorCmd:
		if windows {
			return &windowsCmd{}
		}
	case ExecutorPowerShell, ExecutorPsh:
		return &powerShell{windows: windows}
	}

	if windows {
		return &powerShell{windows: true}
	}

	return &posixShell{name: ExecutorSh}
}

// posixShell hands the script to -c; the shell's own parser deals with
// quoting and embedded newlines.
type posixShell struct {
	name string
}

func (s *posixShell) Name() string {
	return s.name
}

func (s *posixShell) Binary() string {
	return s.name
}

func (s *posixShell) Args(
	command string,
) []string {
	return []string{"-c", command}
}

// windowsCmd makes the process exit with the last command's error level.
// cmd.exe does not follow the argv quoting rules os/exec escapes with, so
// it runs from the raw line built by CommandLine. /s strips only the outer
// quote pair and keeps the command's own quotes intact.
type windowsCmd struct{}

func (s *windowsCmd) Name() string {
	return ExecutorCmd
}

func (s *windowsCmd) Binary() string {
	return ExecutorCmd
}

func (s *windowsCmd) Args(
	command string,
) []string {
	return []string{"/d", "/s", "/c", cmdScript(command)}
}

func (s *windowsCmd) CommandLine(
	command string,
) string {
	return fmt.Sprintf(`%s /d /s /c "%s"`, ExecutorCmd, cmdScript(command))
}

func cmdScript(
	command string,
) string {
	return fmt.Sprintf("setlocal & %s & exit /b errorlevel", command)
}

// powerShell stops on the first error and exits with the last native exit
// code. pwsh is spawned outside Windows.
type powerShell struct {
	windows bool
}

func (s *powerShell) Name() string {
	return ExecutorPowerShell
}

func (s *powerShell) Binary() string {
	if s.windows {
		return "powershell"
	}

	return "pwsh"
}

func (s *powerShell) Args(
	command string,
) []string {
	script := fmt.Sprintf("$ErrorActionPreference = 'Stop'; %s ; exit $LASTEXITCODE", command)
	if !s.windows {
		return []string{"-c", script}
	}

	return []string{
		"-ExecutionPolicy",
		"Bypass",
		"-WindowStyle",
		"Hidden",
		"-NonInteractive",
		"-NoProfile",
		"-Command",
		script,
	}
}

// quotePowerShell wraps s in a single-quoted PowerShell literal.
func quotePowerShell(
	s string,
) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
