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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/retr0h/obas-implant/internal/status"
)

// RunCmdFull executes the provided command with separate stdout and stderr
// capture, an optional working directory, and a timeout in seconds.
// A timeout of 0 disables the deadline. When the deadline fires or ctx is
// cancelled the whole process group is killed and the result carries
// status.ExitCodeFailed. A permission denied start is reported as
// status.ExitCodeCannotExecute rather than an error.
func (e *Exec) RunCmdFull(
	ctx context.Context,
	name string,
	args []string,
	cwd string,
	timeout int,
) (*CmdResult, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	return e.run(ctx, exec.CommandContext(ctx, name, args...), cwd, timeout)
}

// RunCmdLine executes name with cmdLine passed to the OS untouched, for
// programs such as cmd.exe whose quoting rules differ from the argv
// escaping os/exec applies. It fails with ErrCmdLineUnsupported outside
// Windows.
func (e *Exec) RunCmdLine(
	ctx context.Context,
	name string,
	cmdLine string,
	cwd string,
	timeout int,
) (*CmdResult, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name)
	if err := setCmdLine(cmd, cmdLine); err != nil {
		return nil, err
	}

	return e.run(ctx, cmd, cwd, timeout)
}

func withTimeout(
	ctx context.Context,
	timeout int,
) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	}

	return context.WithCancel(ctx)
}

func (e *Exec) run(
	ctx context.Context,
	cmd *exec.Cmd,
	cwd string,
	timeout int,
) (*CmdResult, error) {
	if cwd != "" {
		cmd.Dir = cwd
	}
	setupProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &CmdResult{
		Stdout:     DecodeOutput(stdout.Bytes()),
		Stderr:     DecodeOutput(stderr.Bytes()),
		ExitCode:   0,
		DurationMs: duration.Milliseconds(),
	}

	defer func() {
		e.logger.Debug(
			"exec full",
			slog.String("command", strings.Join(cmd.Args, " ")),
			slog.String("cwd", cwd),
			slog.Int("exit_code", result.ExitCode),
			slog.Int64("duration_ms", result.DurationMs),
			slog.Any("error", err),
		)
	}()

	if err == nil {
		return result, nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = status.ExitCodeFailed
		result.Stderr = appendLine(result.Stderr, fmt.Sprintf("command timed out after %ds", timeout))
		return result, nil
	case errors.Is(ctx.Err(), context.Canceled):
		result.ExitCode = status.ExitCodeFailed
		result.Stderr = appendLine(result.Stderr, "command canceled")
		return result, nil
	}

	// The process exited but a backgrounded descendant still holds the
	// output pipes open; its exit status is final.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		result.ExitCode = processExitCode(cmd.ProcessState.ExitCode())
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = processExitCode(exitErr.ExitCode())
		return result, nil
	}

	if errors.Is(err, os.ErrPermission) {
		result.ExitCode = status.ExitCodeCannotExecute
		result.Stderr = appendLine(result.Stderr, err.Error())
		return result, nil
	}

	return result, fmt.Errorf("failed to execute command: %w", err)
}

// processExitCode maps the -1 os/exec reports for signalled processes to
// status.ExitCodeUnavailable.
func processExitCode(
	code int,
) int {
	if code < 0 {
		return status.ExitCodeUnavailable
	}

	return code
}

// DecodeOutput converts process output to text, replacing invalid UTF-8.
func DecodeOutput(
	output []byte,
) string {
	return strings.ToValidUTF8(string(output), "�")
}

func appendLine(
	text string,
	line string,
) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text + line
	}

	return text + "\n" + line
}
