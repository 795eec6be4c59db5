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
	"context"
	"fmt"
	"log/slog"

	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/exec"
	"github.com/retr0h/obas-implant/internal/status"
)

// Executor implements Provider for one host platform.
type Executor struct {
	logger      *slog.Logger
	execManager exec.Manager
	goos        string
}

// New factory to create a new Executor for goos.
func New(
	logger *slog.Logger,
	execManager exec.Manager,
	goos string,
) *Executor {
	return &Executor{
		logger:      logger,
		execManager: execManager,
		goos:        goos,
	}
}

// Available reports whether the shell selected for executor can be spawned.
func (c *Executor) Available(
	executor string,
) bool {
	return c.execManager.Available(SelectShell(c.goos, executor).Binary())
}

// Command runs params.Command through the shell selected for
// params.Executor and classifies the outcome.
func (c *Executor) Command(
	ctx context.Context,
	params CommandParams,
) (*Result, error) {
	shell := SelectShell(c.goos, params.Executor)

	c.logger.Debug("executing command",
		slog.String("executor", params.Executor),
		slog.String("shell", shell.Name()),
		slog.String("cwd", params.Cwd),
		slog.Int("timeout", params.Timeout),
		slog.Bool("pre_check", params.PreCheck),
	)

	binary := shell.Binary()
	if liner, ok := shell.(CommandLiner); ok {
		return c.run(binary, params.PreCheck, func() (*exec.CmdResult, error) {
			return c.execManager.RunCmdLine(
				ctx,
				binary,
				liner.CommandLine(params.Command),
				params.Cwd,
				params.Timeout,
			)
		})
	}

	args := shell.Args(params.Command)
	return c.run(binary, params.PreCheck, func() (*exec.CmdResult, error) {
		return c.execManager.RunCmdFull(ctx, binary, args, params.Cwd, params.Timeout)
	})
}

// File runs params.Path with bash (sh when bash is missing) on POSIX hosts
// and PowerShell on Windows.
func (c *Executor) File(
	ctx context.Context,
	params FileParams,
) (*Result, error) {
	var (
		binary string
		args   []string
	)

	if c.goos == goosWindows {
		shell := &powerShell{windows: true}
		binary = shell.Binary()
		args = shell.Args("& " + quotePowerShell(params.Path))
	} else {
		binary = ExecutorBash
		if !c.execManager.Available(binary) {
			binary = ExecutorSh
		}
		args = []string{params.Path}
	}

	c.logger.Debug("executing file",
		slog.String("path", params.Path),
		slog.String("interpreter", binary),
	)

	return c.run(binary, false, func() (*exec.CmdResult, error) {
		return c.execManager.RunCmdFull(ctx, binary, args, params.Cwd, params.Timeout)
	})
}

// run checks that binary can be spawned, then calls spawn and classifies
// its result.
func (c *Executor) run(
	binary string,
	preCheck bool,
	spawn func() (*exec.CmdResult, error),
) (*Result, error) {
	if !c.execManager.Available(binary) {
		return nil, errs.IO("check executor", fmt.Errorf("%w: %s", ErrExecutorUnavailable, binary))
	}

	cmdResult, err := spawn()
	if err != nil {
		return nil, errs.IO("spawn "+binary, err)
	}

	return &Result{
		Stdout:     cmdResult.Stdout,
		Stderr:     cmdResult.Stderr,
		ExitCode:   cmdResult.ExitCode,
		Status:     status.Classify(cmdResult.ExitCode, cmdResult.Stderr, preCheck),
		DurationMs: cmdResult.DurationMs,
	}, nil
}
