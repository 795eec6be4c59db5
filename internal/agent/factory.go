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
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/retr0h/obas-implant/internal/exec"
	"github.com/retr0h/obas-implant/internal/provider/command"
	"github.com/retr0h/obas-implant/internal/provider/network/dns"
)

// hostInfo is overridden in tests.
var hostInfo = host.Info

// ProviderFactory creates the providers for the current host.
type ProviderFactory struct {
	logger *slog.Logger
}

// NewProviderFactory creates a new ProviderFactory.
func NewProviderFactory(
	logger *slog.Logger,
) *ProviderFactory {
	return &ProviderFactory{
		logger: logger,
	}
}

// CreateProviders creates the command and DNS providers.
func (f *ProviderFactory) CreateProviders() (
	command.Provider,
	dns.Provider,
) {
	goos := f.detectOS()
	execManager := exec.New(f.logger)

	return command.New(f.logger, execManager, goos), dns.New(f.logger)
}

// detectOS returns the host operating system, falling back to the build
// target when the host cannot be inspected.
func (f *ProviderFactory) detectOS() string {
	info, err := hostInfo()
	if err != nil || info == nil || info.OS == "" {
		f.logger.Debug("using build target os",
			slog.String("goos", runtime.GOOS),
		)

		return runtime.GOOS
	}

	return info.OS
}
