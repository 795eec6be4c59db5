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
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/payload"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/status"
	"github.com/retr0h/obas-implant/internal/telemetry"
)

// run carries the state of one payload run.
type run struct {
	*Agent

	rc       RunContext
	contract *payload.Contract
	defaults map[string]string
	logger   *slog.Logger
	reports  []Report
}

// Run executes contract: prerequisites, the main action for its kind,
// cleanup and a final complete report. Stage failures become ERROR reports
// and never abort the run; Run always returns an Outcome.
func (a *Agent) Run(
	ctx context.Context,
	rc RunContext,
	contract *payload.Contract,
) *Outcome {
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "agent.run",
		attribute.String("run_id", rc.RunID),
		attribute.String("inject_id", rc.InjectID),
		attribute.String("payload.type", string(contract.Type)),
	)
	defer span.End()

	r := &run{
		Agent:    a,
		rc:       rc,
		contract: contract,
		defaults: contract.Defaults(),
		logger: a.logger.With(
			slog.String("run_id", rc.RunID),
			slog.String("inject_id", rc.InjectID),
		),
	}

	r.logger.InfoContext(ctx, "payload run started",
		slog.String("type", string(contract.Type)),
		slog.String("working_dir", rc.WorkingDir),
		slog.Int("prerequisites", len(contract.Prerequisites)),
	)

	if err := a.appFs.MkdirAll(rc.WorkingDir, 0o755); err != nil {
		r.logger.WarnContext(ctx, "failed to create working directory",
			slog.String("working_dir", rc.WorkingDir),
			slog.String("error", err.Error()),
		)
	}

	var (
		st       status.Status
		exitCode int
	)

	if failures := r.prerequisites(ctx); failures == 0 {
		st, exitCode = r.dispatch(ctx)
	} else {
		r.logger.WarnContext(ctx, "payload skipped",
			slog.Int("prerequisite_failures", failures),
		)
		r.report(ctx, StageDependenciesFailure, status.Error, client.ExecutionOutput{
			Stderr:   fmt.Sprintf("payload not executed due to dependencies failure (%d)", failures),
			ExitCode: ExitCodeAborted,
		}, 0)
		st, exitCode = status.Error, ExitCodeAborted
	}

	r.cleanup(ctx)

	duration := time.Since(start).Milliseconds()
	r.report(ctx, StageComplete, st, client.ExecutionOutput{
		Stdout:   fmt.Sprintf("%s payload finished with %s", contract.Type, st),
		ExitCode: exitCode,
	}, duration)

	span.SetAttributes(
		attribute.String("status", string(st)),
		attribute.Int("exit_code", exitCode),
	)

	r.logger.InfoContext(ctx, "payload run finished",
		slog.String("status", string(st)),
		slog.Int("exit_code", exitCode),
		slog.Int64("duration_ms", duration),
	)

	return &Outcome{
		RunID:      rc.RunID,
		Kind:       contract.Type,
		Status:     st,
		ExitCode:   exitCode,
		DurationMs: duration,
		Reports:    r.reports,
	}
}

// prerequisites runs every prerequisite in order and returns the sum of
// the absolute exit codes of the install commands that ran.
func (r *run) prerequisites(
	ctx context.Context,
) int {
	failures := 0

	for i, p := range r.contract.Prerequisites {
		if check, ok := p.Check(); ok {
			res := r.command(ctx, StagePrerequisiteCheck, check, p.Executor, true)
			if res.ExitCode == 0 {
				r.logger.DebugContext(ctx, "prerequisite satisfied", slog.Int("index", i))
				continue
			}
		}

		res := r.command(ctx, StagePrerequisiteExecution, p.GetCommand, p.Executor, false)
		failures += abs(res.ExitCode)
	}

	return failures
}

func (r *run) cleanup(
	ctx context.Context,
) {
	content, executor, ok := r.contract.Cleanup()
	if !ok {
		return
	}

	r.command(ctx, StageCleanupExecution, content, executor, false)
}

// command decodes, resolves and runs an encoded command, then reports the
// result under stage. Errors are folded into an ERROR result.
func (r *run) command(
	ctx context.Context,
	stage Stage,
	encoded string,
	executor string,
	preCheck bool,
) *command.Result {
	ctx, span := telemetry.StartSpan(ctx, "agent."+stage.Action,
		attribute.String("executor", executor),
		attribute.Bool("pre_check", preCheck),
	)

	start := time.Now()
	res, err := r.invoke(ctx, encoded, executor, preCheck)
	if err != nil {
		r.logger.ErrorContext(ctx, "command failed",
			slog.String("action", stage.Label),
			slog.String("error", err.Error()),
		)
		res = failedResult(err)
	}

	span.SetAttributes(
		attribute.Int("exit_code", res.ExitCode),
		attribute.String("status", string(res.Status)),
	)
	telemetry.EndSpan(span, err)

	r.reportResult(ctx, stage, res, time.Since(start).Milliseconds())

	return res
}

func (r *run) invoke(
	ctx context.Context,
	encoded string,
	executor string,
	preCheck bool,
) (*command.Result, error) {
	raw, err := command.Decode(encoded)
	if err != nil {
		return nil, err
	}

	resolved := payload.Resolve(raw, r.rc.UserValues, r.defaults, r.rc.WorkingDir)
	if unresolved := payload.Placeholders(resolved); len(unresolved) > 0 {
		r.logger.DebugContext(ctx, "command has unresolved placeholders",
			slog.Any("placeholders", unresolved),
		)
	}

	return r.commandProvider.Command(ctx, command.CommandParams{
		Command:  resolved,
		Executor: executor,
		Cwd:      r.rc.WorkingDir,
		Timeout:  r.rc.Timeout,
		PreCheck: preCheck,
	})
}

func failedResult(
	err error,
) *command.Result {
	return &command.Result{
		Stderr:   err.Error(),
		ExitCode: status.ExitCodeFailed,
		Status:   status.Error,
	}
}

// exitCode maps a main action result to the process exit code.
func exitCode(
	res *command.Result,
) int {
	switch {
	case res.Status.IsSuccessful():
		return 0
	case res.ExitCode != 0:
		return res.ExitCode
	default:
		return ExitCodeAborted
	}
}

func abs(
	n int,
) int {
	if n < 0 {
		return -n
	}

	return n
}
