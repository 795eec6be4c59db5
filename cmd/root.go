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
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/lmittmann/tint"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/retr0h/obas-implant/internal/cli"
	"github.com/retr0h/obas-implant/internal/config"
	"github.com/retr0h/obas-implant/internal/telemetry"
)

var (
	appConfig  config.Config
	appFs      = afero.NewOsFs()
	logger     = slog.New(slog.NewTextHandler(os.Stdout, nil))
	logFile    io.Closer
	jsonOutput bool
	argPairs   []string
	buildInfo  goversion.Info
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "openbas-implant",
	Short: "Execute one OpenBAS payload and report its outcome.",
	Long: `Fetches the executable payload scheduled for an agent, runs its
prerequisites, main action and cleanup, and reports every stage back
to the OpenBAS controller.
`,
	Args: cobra.NoArgs,
	Run:  runImplant,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(
	info goversion.Info,
) {
	buildInfo = info
	rootCmd.Version = info.GitVersion

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		// A second signal falls through to the default handler.
		signal.Stop(sigChan)
		logger.Warn("cancelling run", slog.String("signal", sig.String()))
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable or disable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Enable JSON output")
	rootCmd.PersistentFlags().
		StringP("config", "f", "", "Path to an optional YAML config file")

	rootCmd.Flags().StringP("uri", "u", "", "OpenBAS controller URI")
	rootCmd.Flags().StringP("token", "t", "", "OpenBAS bearer token")
	rootCmd.Flags().Bool("unsecured-certificate", false, "Skip TLS certificate verification")
	rootCmd.Flags().Bool("with-proxy", false, "Use the proxy configured in the environment")
	rootCmd.Flags().Int("http-timeout", 5, "Request timeout in seconds for controller calls")
	rootCmd.Flags().String("agent-id", "", "Agent the payload was scheduled for")
	rootCmd.Flags().String("inject-id", "", "Inject to execute")
	rootCmd.Flags().Int("timeout", 0, "Per-process timeout in seconds (0 = none)")
	rootCmd.Flags().String("working-dir", "", "Payload working directory (defaults to the executable's directory)")
	rootCmd.Flags().Bool("in-memory-drop", false, "Keep FileDrop documents in memory")
	rootCmd.Flags().StringArrayVar(&argPairs, "arg", nil, "Payload argument as key=value (repeatable)")
	rootCmd.Flags().String("tracing-exporter", "", "Trace exporter: none, stdout or otlp")
	rootCmd.Flags().String("otlp-endpoint", "", "OTLP gRPC endpoint (e.g., localhost:4317)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("configFile", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api.url", rootCmd.Flags().Lookup("uri"))
	_ = viper.BindPFlag("api.security.bearer_token", rootCmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("api.unsecured_certificate", rootCmd.Flags().Lookup("unsecured-certificate"))
	_ = viper.BindPFlag("api.with_proxy", rootCmd.Flags().Lookup("with-proxy"))
	_ = viper.BindPFlag("api.timeout", rootCmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("implant.agent_id", rootCmd.Flags().Lookup("agent-id"))
	_ = viper.BindPFlag("implant.inject_id", rootCmd.Flags().Lookup("inject-id"))
	_ = viper.BindPFlag("implant.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("implant.working_dir", rootCmd.Flags().Lookup("working-dir"))
	_ = viper.BindPFlag("implant.in_memory_drop", rootCmd.Flags().Lookup("in-memory-drop"))
	_ = viper.BindPFlag("telemetry.tracing.exporter", rootCmd.Flags().Lookup("tracing-exporter"))
	_ = viper.BindPFlag("telemetry.tracing.otlp_endpoint", rootCmd.Flags().Lookup("otlp-endpoint"))
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("openbas_implant")

	if file := viper.GetString("configFile"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			cli.LogFatal(logger, "failed to read config", err, "configFile", file)
		}
	}

	if err := viper.Unmarshal(&appConfig); err != nil {
		cli.LogFatal(logger, "failed to unmarshal config", err, "configFile", viper.ConfigFileUsed())
	}

	args, err := config.ParseArgs(argPairs)
	if err != nil {
		cli.LogFatal(logger, "invalid --arg", err)
	}
	appConfig.Implant.Args = mergeArgs(appConfig.Implant.Args, args)

	tracing := &appConfig.Telemetry.Tracing
	if tracing.Exporter != "" && tracing.Exporter != "none" {
		tracing.Enabled = true
	}

	// Auto-enable tracing in debug mode so trace_id appears in log lines.
	if appConfig.Debug && !tracing.Enabled {
		tracing.Enabled = true
	}
}

func initLogger() {
	logLevel := slog.LevelInfo
	if viper.GetBool("debug") {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
			NoColor:    !term.IsTerminal(int(os.Stdout.Fd())),
		})
	}

	if f, err := telemetry.OpenLogFile(appFs, executableDir(), time.Now()); err == nil {
		logFile = f
		handler = telemetry.NewFanoutHandler(
			handler,
			slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel}),
		)
	}

	handler = telemetry.NewTraceHandler(handler)
	logger = slog.New(handler)
}

// executableDir returns the directory holding the running binary, or the
// current directory when it cannot be determined.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}

// mergeArgs overlays flag arguments on the ones from the config file.
func mergeArgs(
	base map[string]string,
	overrides map[string]string,
) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}
