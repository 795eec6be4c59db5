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

// Package command formats payload commands for the requested shell and runs
// them through the exec manager.
package command

import (
	"context"
	"errors"

	"github.com/retr0h/obas-implant/internal/status"
)

//go:generate mockgen -source=types.go -destination=mocks/types.gen.go -package=mocks

// ErrExecutorUnavailable is returned when the shell cannot be spawned.
var ErrExecutorUnavailable = errors.New("executor unavailable")

// Provider runs payload commands and files.
type Provider interface {
	// Command runs a decoded command body through its executor. Cancelling
	// ctx kills the running command.
	Command(ctx context.Context, params CommandParams) (*Result, error)
	// File runs a file with the host's default script interpreter.
	File(ctx context.Context, params FileParams) (*Result, error)
	// Available reports whether the shell behind executor can be spawned.
	Available(executor string) bool
}

// CommandParams describes one command invocation.
type CommandParams struct {
	// Command is the raw, already resolved command text.
	Command string
	// Executor is the requested shell name (bash, sh, cmd, powershell, psh).
	Executor string
	// Cwd is the optional working directory.
	Cwd string
	// Timeout is the timeout in seconds (0 = none).
	Timeout int
	// PreCheck marks a prerequisite check, whose exit 1 counts as success.
	PreCheck bool
}

// FileParams describes one file execution.
type FileParams struct {
	// Path is the absolute path of the file to run.
	Path string
	// Cwd is the optional working directory.
	Cwd string
	// Timeout is the timeout in seconds (0 = none).
	Timeout int
}

// Result is the classified outcome of one invocation.
type Result struct {
	// Stdout is the standard output.
	Stdout string `json:"stdout"`
	// Stderr is the standard error output.
	Stderr string `json:"stderr"`
	// ExitCode is the process exit code.
	ExitCode int `json:"exit_code"`
	// Status is the classified execution status.
	Status status.Status `json:"status"`
	// DurationMs is the execution time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}
