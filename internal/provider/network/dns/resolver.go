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

package dns

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// New factory to create a new Resolver backed by the system resolver.
func New(
	logger *slog.Logger,
) *Resolver {
	return NewWithLookup(logger, net.DefaultResolver)
}

// NewWithLookup factory to create a new Resolver backed by lookup.
func NewWithLookup(
	logger *slog.Logger,
	lookup Lookup,
) *Resolver {
	return &Resolver{
		logger: logger.With("component", "dns"),
		lookup: lookup,
	}
}

// Resolve converts hostname to its ASCII form and looks it up. Duplicate
// addresses are dropped, the resolver's order is kept.
func (r *Resolver) Resolve(
	ctx context.Context,
	hostname string,
) ([]string, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return nil, fmt.Errorf("invalid hostname %q: %w", hostname, err)
	}

	r.logger.Debug("dns resolution",
		slog.String("hostname", hostname),
		slog.String("ascii", ascii),
	)

	addrs, err := r.lookup.LookupHost(ctx, ascii)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", hostname, err)
	}

	seen := make(map[string]struct{}, len(addrs))
	unique := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, addr)
	}

	return unique, nil
}

// Format renders a resolution the way it is reported: "host: ip1, ip2".
func Format(
	hostname string,
	addrs []string,
) string {
	return fmt.Sprintf("%s: %s", hostname, strings.Join(addrs, ", "))
}

// Hostnames splits a newline separated hostname list, dropping blank lines.
func Hostnames(
	list string,
) []string {
	var hostnames []string
	for _, line := range strings.Split(list, "\n") {
		if h := strings.TrimSpace(line); h != "" {
			hostnames = append(hostnames, h)
		}
	}

	return hostnames
}
