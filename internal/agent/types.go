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

// Package agent runs one executable payload end to end: prerequisites,
// the main action, cleanup, and the status reports sent along the way.
package agent

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/payload"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/provider/network/dns"
	"github.com/retr0h/obas-implant/internal/status"
)

// ExitCodeAborted is the process exit code used when the main action did
// not produce one: dependency failure, unsupported kind, missing data or a
// failed download.
const ExitCodeAborted = 1

// Agent runs payloads for one implant invocation.
type Agent struct {
	appFs     afero.Fs
	appConfig config.Config
	logger    *slog.Logger

	client          client.Handler
	commandProvider command.Provider
	dnsProvider     dns.Provider
}

// Stage names one reporting step of a run.
type Stage struct {
	// Label is the action carried inside the execution message.
	Label string
	// Action is the execution_action sent to the controller.
	Action string
}

// Stages reported by a run.
var (
	StagePrerequisiteCheck     = Stage{Label: "prerequisite check", Action: "prerequisite_check"}
	StagePrerequisiteExecution = Stage{Label: "prerequisite execution", Action: "prerequisite_execution"}
	StageImplantExecution      = Stage{Label: "implant execution", Action: "command_execution"}
	StageDNSResolution         = Stage{Label: "dns resolution", Action: "dns_resolution"}
	StageFileDrop              = Stage{Label: "file drop", Action: "file_drop"}
	StageFileExecution         = Stage{Label: "file execution", Action: "file_execution"}
	StageDependenciesFailure   = Stage{Label: "dependencies failure", Action: "command_execution"}
	StageTypeNotSupported      = Stage{Label: "type not supported", Action: "command_execution"}
	StageCleanupExecution      = Stage{Label: "cleanup execution", Action: "cleanup_execution"}
	StageComplete              = Stage{Label: "complete", Action: "complete"}
)

// RunContext holds the values scoped to one payload run.
type RunContext struct {
	// RunID correlates the logs and spans of one run.
	RunID string
	// AgentID identifies the agent the payload was scheduled for.
	AgentID string
	// InjectID identifies the inject being executed.
	InjectID string
	// WorkingDir is the absolute payload directory, substituted for
	// #{location} and used as the process working directory.
	WorkingDir string
	// UserValues are placeholder values supplied at invocation.
	UserValues map[string]string
	// Timeout is the per-process timeout in seconds (0 = none).
	Timeout int
	// InMemoryDrop keeps FileDrop documents off disk.
	InMemoryDrop bool
}

// Report is one status update produced by a run.
type Report struct {
	Stage      Stage
	Status     status.Status
	Output     client.ExecutionOutput
	DurationMs int64
	// Delivered is false when the controller could not be reached.
	Delivered bool
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID      string
	Kind       payload.Kind
	Status     status.Status
	ExitCode   int
	DurationMs int64
	Reports    []Report
}
