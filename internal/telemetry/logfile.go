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

package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// LogFileName is the JSON log written next to the executable.
const LogFileName = "openbas-implant.log"

// LogFileRetention is the number of rolled log files kept beside the
// active one.
const LogFileRetention = 3

// OpenLogFile opens LogFileName in dir for appending, creating it if needed.
// The log rolls daily: a file last written on an earlier day than now is
// moved to LogFileName.1, older files shift up by one and anything past
// LogFileRetention is removed.
func OpenLogFile(
	appFs afero.Fs,
	dir string,
	now time.Time,
) (afero.File, error) {
	path := filepath.Join(dir, LogFileName)

	if info, err := appFs.Stat(path); err == nil && !sameDay(info.ModTime(), now) {
		if err := rollLogFiles(appFs, path); err != nil {
			return nil, err
		}
	}

	return appFs.OpenFile(
		path,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
}

func rollLogFiles(
	appFs afero.Fs,
	path string,
) error {
	if err := appFs.Remove(rolledName(path, LogFileRetention)); err != nil &&
		!errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove rolled log: %w", err)
	}

	for i := LogFileRetention - 1; i >= 1; i-- {
		src := rolledName(path, i)
		if exists, _ := afero.Exists(appFs, src); !exists {
			continue
		}
		if err := appFs.Rename(src, rolledName(path, i+1)); err != nil {
			return fmt.Errorf("failed to roll log: %w", err)
		}
	}

	if err := appFs.Rename(path, rolledName(path, 1)); err != nil {
		return fmt.Errorf("failed to roll log: %w", err)
	}

	return nil
}

func rolledName(
	path string,
	n int,
) string {
	return fmt.Sprintf("%s.%d", path, n)
}

func sameDay(
	a time.Time,
	b time.Time,
) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
