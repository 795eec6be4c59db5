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

package payload

import (
	"regexp"
	"strings"
)

// LocationKey is the reserved placeholder replaced by the payload working
// directory.
const LocationKey = "location"

var placeholderPattern = regexp.MustCompile(`#\{([^{}]+?)\}`)

// Resolve substitutes #{name} placeholders in template. A non-empty user
// value wins over the contract default; placeholders with neither are left
// untouched. Substituted values are not rescanned for other placeholders,
// but #{location} is replaced with workingDir everywhere afterwards,
// including inside substituted values.
func Resolve(
	template string,
	userValues map[string]string,
	defaults map[string]string,
	workingDir string,
) string {
	out := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[2 : len(token)-1]
		if name == LocationKey {
			return workingDir
		}

		if value, ok := userValues[name]; ok && value != "" {
			return value
		}

		if value, ok := defaults[name]; ok {
			return value
		}

		return token
	})

	return strings.ReplaceAll(out, "#{"+LocationKey+"}", workingDir)
}

// Placeholders returns the distinct placeholder names in template, in order
// of first appearance.
func Placeholders(
	template string,
) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}

	return names
}
