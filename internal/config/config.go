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

// Package config holds the implant configuration loaded by viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	masker "github.com/ggwhite/go-masker/v2"

	"github.com/retr0h/obas-implant/internal/validation"
)

// Validate checks the configuration against its validate tags.
func Validate(
	c *Config,
) error {
	if msg, ok := validation.Struct(c); !ok {
		return errors.New(msg)
	}

	return nil
}

// Masked returns a copy of c with secrets masked, suitable for logging.
func Masked(
	c Config,
) (any, error) {
	masked, err := masker.NewMaskerMarshaler().Struct(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to mask config: %w", err)
	}

	return masked, nil
}

// ParseArgs turns key=value pairs into user values. Later pairs override
// earlier ones; the value may itself contain '='.
func ParseArgs(
	pairs []string,
) (map[string]string, error) {
	args := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		args[key] = value
	}

	return args, nil
}
