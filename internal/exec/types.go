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

package exec

import (
	"context"
	"errors"
	"log/slog"
)

// ErrCmdLineUnsupported is returned by RunCmdLine on hosts that always
// build the command line from an argument vector.
var ErrCmdLineUnsupported = errors.New("raw command line not supported on this platform")

//go:generate mockgen -source=types.go -destination=mocks/types.gen.go -package=mocks

// Manager spawns OS processes.
type Manager interface {
	// RunCmdFull runs name with args and blocks until it exits, capturing
	// stdout and stderr separately. A timeout of 0 waits indefinitely.
	// Cancelling ctx kills the process group.
	RunCmdFull(
		ctx context.Context,
		name string,
		args []string,
		cwd string,
		timeout int,
	) (*CmdResult, error)
	// RunCmdLine is RunCmdFull for programs that parse their own command
	// line. cmdLine is handed to the OS verbatim, argv[0] included. Only
	// Windows supports it.
	RunCmdLine(
		ctx context.Context,
		name string,
		cmdLine string,
		cwd string,
		timeout int,
	) (*CmdResult, error)
	// Available reports whether name can be spawned on this host.
	Available(name string) bool
}

// Exec is the os/exec backed Manager.
type Exec struct {
	logger *slog.Logger
}

// New factory to create a new Exec instance.
func New(
	logger *slog.Logger,
) *Exec {
	return &Exec{
		logger: logger,
	}
}

// CmdResult is the captured outcome of one process.
type CmdResult struct {
	// Stdout is the standard output, invalid UTF-8 replaced.
	Stdout string
	// Stderr is the standard error output, invalid UTF-8 replaced.
	Stderr string
	// ExitCode is the process exit code or a negative sentinel.
	ExitCode int
	// DurationMs is the wall-clock execution time in milliseconds.
	DurationMs int64
}
