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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/payload"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/provider/network/dns"
	"github.com/retr0h/obas-implant/internal/status"
	"github.com/retr0h/obas-implant/internal/telemetry"
)

const (
	msgFileDownloaded   = "File downloaded with success"
	msgDocumentNotFound = "Payload download fail, document not specified"
)

// dispatch runs the main action for the contract kind and returns its
// status and process exit code.
func (r *run) dispatch(
	ctx context.Context,
) (status.Status, int) {
	switch r.contract.Type {
	case payload.KindCommand:
		return r.processCommand(ctx)
	case payload.KindDNSResolution:
		return r.processDNSResolution(ctx)
	case payload.KindExecutable:
		return r.processExecutable(ctx)
	case payload.KindFileDrop:
		return r.processFileDrop(ctx)
	default:
		r.logger.WarnContext(ctx, "unsupported payload type",
			slog.String("type", string(r.contract.Type)),
		)
		r.report(ctx, StageTypeNotSupported, status.Error, client.ExecutionOutput{
			Stderr:   fmt.Sprintf("payload type %q not supported", r.contract.Type),
			ExitCode: ExitCodeAborted,
		}, 0)

		return status.Error, ExitCodeAborted
	}
}

func (r *run) processCommand(
	ctx context.Context,
) (status.Status, int) {
	content, executor, ok := r.contract.Command()
	if !ok {
		r.report(ctx, StageImplantExecution, status.Error, client.ExecutionOutput{
			Stderr:   "command payload is missing its content or executor",
			ExitCode: ExitCodeAborted,
		}, 0)

		return status.Error, ExitCodeAborted
	}

	res := r.command(ctx, StageImplantExecution, content, executor, false)

	return res.Status, exitCode(res)
}

func (r *run) processDNSResolution(
	ctx context.Context,
) (status.Status, int) {
	var list string
	if r.contract.DNSResolutionHostname != nil {
		list = *r.contract.DNSResolutionHostname
	}

	hostnames := dns.Hostnames(list)
	if len(hostnames) == 0 {
		r.report(ctx, StageDNSResolution, status.Error, client.ExecutionOutput{
			Stderr:   "dns resolution payload has no hostname",
			ExitCode: ExitCodeAborted,
		}, 0)

		return status.Error, ExitCodeAborted
	}

	failed := 0
	for _, hostname := range hostnames {
		if err := r.resolve(ctx, hostname); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return status.Error, ExitCodeAborted
	}

	return status.Success, 0
}

func (r *run) resolve(
	ctx context.Context,
	hostname string,
) error {
	ctx, span := telemetry.StartSpan(ctx, "agent.dns_resolution",
		attribute.String("hostname", hostname),
	)

	start := time.Now()
	addrs, err := r.dnsProvider.Resolve(ctx, hostname)
	duration := time.Since(start).Milliseconds()

	telemetry.EndSpan(span, err)

	if err != nil {
		r.report(ctx, StageDNSResolution, status.Error, client.ExecutionOutput{
			Stderr:   err.Error(),
			ExitCode: 1,
		}, duration)

		return err
	}

	r.report(ctx, StageDNSResolution, status.Success, client.ExecutionOutput{
		Stdout: dns.Format(hostname, addrs),
	}, duration)

	return nil
}

func (r *run) processFileDrop(
	ctx context.Context,
) (status.Status, int) {
	if _, err := r.drop(ctx, r.contract.FileDropFile, r.rc.InMemoryDrop); err != nil {
		return status.Error, ExitCodeAborted
	}

	return status.Success, 0
}

func (r *run) processExecutable(
	ctx context.Context,
) (status.Status, int) {
	download, err := r.drop(ctx, r.contract.ExecutableFile, false)
	if err != nil {
		return status.Error, ExitCodeAborted
	}

	ctx, span := telemetry.StartSpan(ctx, "agent.file_execution",
		attribute.String("path", download.Path),
	)

	start := time.Now()
	res, err := r.commandProvider.File(ctx, command.FileParams{
		Path:    download.Path,
		Cwd:     r.rc.WorkingDir,
		Timeout: r.rc.Timeout,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "file execution failed",
			slog.String("path", download.Path),
			slog.String("error", err.Error()),
		)
		res = failedResult(err)
	}

	telemetry.EndSpan(span, err)
	r.reportResult(ctx, StageFileExecution, res, time.Since(start).Milliseconds())

	return res.Status, exitCode(res)
}

// drop downloads documentID into the working directory and reports the
// file drop stage.
func (r *run) drop(
	ctx context.Context,
	documentID *string,
	inMemory bool,
) (*client.Download, error) {
	ctx, span := telemetry.StartSpan(ctx, "agent.file_drop",
		attribute.Bool("in_memory", inMemory),
	)

	if documentID == nil || *documentID == "" {
		err := errs.Internal("file drop", errors.New("document not specified"))
		telemetry.EndSpan(span, err)
		r.report(ctx, StageFileDrop, status.Error, client.ExecutionOutput{
			Stderr:   msgDocumentNotFound,
			ExitCode: ExitCodeAborted,
		}, 0)

		return nil, err
	}

	start := time.Now()
	download, err := r.client.DownloadFile(ctx, *documentID, r.rc.WorkingDir, inMemory)
	duration := time.Since(start).Milliseconds()

	telemetry.EndSpan(span, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "document download failed",
			slog.String("document_id", *documentID),
			slog.String("error", err.Error()),
		)
		r.report(ctx, StageFileDrop, status.Error, client.ExecutionOutput{
			Stderr:   err.Error(),
			ExitCode: ExitCodeAborted,
		}, duration)

		return nil, err
	}

	r.logger.DebugContext(ctx, "document downloaded",
		slog.String("document_id", *documentID),
		slog.String("name", download.Name),
		slog.Int64("size", download.Size),
	)
	r.report(ctx, StageFileDrop, status.Success, client.ExecutionOutput{
		Stdout: msgFileDownloaded,
	}, duration)

	return download, nil
}
