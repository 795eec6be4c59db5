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

package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retr0h/obas-implant/internal/agent"
	"github.com/retr0h/obas-implant/internal/cli"
	"github.com/retr0h/obas-implant/internal/client"
	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/telemetry"
)

// osExit is overridden in tests.
var osExit = os.Exit

func runImplant(
	cmd *cobra.Command,
	_ []string,
) {
	ctx := cmd.Context()

	if err := config.Validate(&appConfig); err != nil {
		cli.LogFatal(logger, "validation failed", err, "configFile", viper.ConfigFileUsed())
		return
	}

	logger.Info("implant starting", cli.HostFacts()...)
	logMaskedConfig(ctx)

	shutdownTracer, err := telemetry.InitTracer(
		ctx,
		buildInfo.GitVersion,
		appConfig.Telemetry.Tracing,
		os.Stderr,
	)
	if err != nil {
		cli.LogFatal(logger, "failed to initialize tracer", err)
		return
	}

	log := logger.With("component", "agent")
	a := setupAgent(log)

	rc := agent.NewRunContext(appConfig, resolveWorkingDir(appConfig.Implant.WorkingDir))

	contract, err := a.FetchContract(ctx, rc)
	if err != nil {
		shutdown(shutdownTracer)
		cli.LogFatal(logger, "failed to fetch payload", err,
			"inject_id", rc.InjectID,
			"agent_id", rc.AgentID,
		)
		return
	}

	outcome := a.Run(ctx, rc, contract)

	if !jsonOutput {
		cli.PrintRunSummary(os.Stdout, outcome)
	}

	shutdown(shutdownTracer)
	osExit(outcome.ExitCode)
}

func setupAgent(
	log *slog.Logger,
) *agent.Agent {
	httpClient := client.NewHTTPClient(log, appConfig, client.UserAgent(buildInfo.GitVersion))
	apiClient := client.New(log, appFs, appConfig, httpClient)

	providerFactory := agent.NewProviderFactory(log)
	commandProvider, dnsProvider := providerFactory.CreateProviders()

	return agent.New(
		appFs,
		appConfig,
		log,
		apiClient,
		commandProvider,
		dnsProvider,
	)
}

// resolveWorkingDir returns dir as an absolute path, defaulting to the
// executable's directory.
func resolveWorkingDir(
	dir string,
) string {
	if dir == "" {
		dir = executableDir()
	}

	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}

	return dir
}

func logMaskedConfig(
	ctx context.Context,
) {
	if !appConfig.Debug {
		return
	}

	masked, err := config.Masked(appConfig)
	if err != nil {
		logger.DebugContext(ctx, "failed to mask config", slog.String("error", err.Error()))
		return
	}

	logger.DebugContext(ctx, "effective config", slog.Any("config", masked))
}

func shutdown(
	shutdownTracer func(context.Context) error,
) {
	if err := shutdownTracer(context.Background()); err != nil {
		logger.Warn("failed to shut down tracer", slog.String("error", err.Error()))
	}

	if logFile != nil {
		_ = logFile.Close()
	}
}
