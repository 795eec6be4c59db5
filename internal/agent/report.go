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
	"log/slog"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/status"
)

func (r *run) reportResult(
	ctx context.Context,
	stage Stage,
	res *command.Result,
	durationMs int64,
) {
	r.report(ctx, stage, res.Status, client.ExecutionOutput{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, durationMs)
}

// report pushes one status update. Delivery failures are logged and
// recorded on the Report only. Updates are still sent once ctx is
// cancelled so an interrupted run reports its remaining stages.
func (r *run) report(
	ctx context.Context,
	stage Stage,
	st status.Status,
	out client.ExecutionOutput,
	durationMs int64,
) {
	out.Action = stage.Label

	err := r.client.UpdateStatus(context.WithoutCancel(ctx), r.rc.InjectID, r.rc.AgentID, client.UpdateInput{
		ExecutionMessage:  out.JSON(),
		ExecutionStatus:   string(st),
		ExecutionAction:   stage.Action,
		ExecutionDuration: durationMs,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "failed to report status",
			slog.String("action", stage.Label),
			slog.String("error", err.Error()),
		)
	}

	r.logger.InfoContext(ctx, "stage reported",
		slog.String("action", stage.Label),
		slog.String("status", string(st)),
		slog.Int("exit_code", out.ExitCode),
		slog.Int64("duration_ms", durationMs),
	)

	r.reports = append(r.reports, Report{
		Stage:      stage,
		Status:     st,
		Output:     out,
		DurationMs: durationMs,
		Delivered:  err == nil,
	})
}
