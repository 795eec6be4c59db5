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
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/errs"
	"github.com/retr0h/obas-implant/internal/payload"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/provider/network/dns"
	"github.com/retr0h/obas-implant/internal/telemetry"
	"github.com/retr0h/obas-implant/internal/validation"
)

// New factory to create a new instance.
func New(
	appFs afero.Fs,
	appConfig config.Config,
	logger *slog.Logger,
	client client.Handler,
	commandProvider command.Provider,
	dnsProvider dns.Provider,
) *Agent {
	return &Agent{
		appFs:           appFs,
		appConfig:       appConfig,
		logger:          logger,
		client:          client,
		commandProvider: commandProvider,
		dnsProvider:     dnsProvider,
	}
}

// NewRunContext builds the run-scoped values from appConfig. Each call
// gets a fresh run id.
func NewRunContext(
	appConfig config.Config,
	workingDir string,
) RunContext {
	return RunContext{
		RunID:        uuid.NewString(),
		AgentID:      appConfig.Implant.AgentID,
		InjectID:     appConfig.Implant.InjectID,
		WorkingDir:   workingDir,
		UserValues:   appConfig.Implant.Args,
		Timeout:      appConfig.Implant.Timeout,
		InMemoryDrop: appConfig.Implant.InMemoryDrop,
	}
}

// FetchContract retrieves and validates the payload contract for rc.
func (a *Agent) FetchContract(
	ctx context.Context,
	rc RunContext,
) (*payload.Contract, error) {
	ctx, span := telemetry.StartSpan(ctx, "agent.fetch_contract",
		attribute.String("run_id", rc.RunID),
		attribute.String("inject_id", rc.InjectID),
	)

	contract, err := a.client.GetExecutablePayload(ctx, rc.InjectID, rc.AgentID)
	switch {
	case err != nil:
	case contract == nil:
		err = errs.Internal("validate contract", errors.New("empty payload contract"))
	default:
		if msg, ok := validation.Struct(contract); !ok {
			contract = nil
			err = errs.Internal("validate contract", errors.New(msg))
		}
	}

	telemetry.EndSpan(span, err)

	return contract, err
}
