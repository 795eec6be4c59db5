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

// Package status maps raw process outcomes to the execution status labels
// understood by the controller.
package status

// Status is an execution status label.
type Status string

const (
	Success                 Status = "SUCCESS"
	Warning                 Status = "WARNING"
	Error                   Status = "ERROR"
	MaybePrevented          Status = "MAYBE_PREVENTED"
	CommandNotFound         Status = "COMMAND_NOT_FOUND"
	CommandCannotBeExecuted Status = "COMMAND_CANNOT_BE_EXECUTED"
)

// Exit code sentinels produced when no real exit code is available.
const (
	// ExitCodeUnavailable is used when the process ended without an exit
	// code, typically killed by a signal.
	ExitCodeUnavailable = -99
	// ExitCodeFailed is used for timeouts and stage-level failures.
	ExitCodeFailed = -1
	// ExitCodeNotFound is the shell convention for an unknown command.
	ExitCodeNotFound = 127
	// ExitCodeCannotExecute is the shell convention for a command that
	// exists but cannot run, e.g. permission denied.
	ExitCodeCannotExecute = 126
)

// All lists every status in a stable order.
var All = []Status{
	Success,
	Warning,
	Error,
	MaybePrevented,
	CommandNotFound,
	CommandCannotBeExecuted,
}

// Classify returns the status for an exit code, the captured stderr, and
// whether the invocation was a prerequisite check. A non-zero exit on a
// security control check may mean the control blocked the action, hence
// MAYBE_PREVENTED rather than ERROR.
func Classify(
	exitCode int,
	stderr string,
	preCheck bool,
) Status {
	switch {
	case exitCode == 0 && stderr == "":
		return Success
	case exitCode == 0:
		return Warning
	case exitCode == 1 && preCheck:
		return Success
	case exitCode == ExitCodeNotFound:
		return CommandNotFound
	case exitCode == ExitCodeCannotExecute:
		return CommandCannotBeExecuted
	case exitCode < 0:
		return Error
	default:
		return MaybePrevented
	}
}

// IsSuccessful reports whether s counts as a passing outcome.
func (s Status) IsSuccessful() bool {
	return s == Success || s == Warning
}

// Valid reports whether s is one of the known labels.
func (s Status) Valid() bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}

	return false
}

func (s Status) String() string {
	return string(s)
}
