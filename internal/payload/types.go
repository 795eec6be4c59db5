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

// Package payload describes the executable payload contract returned by the
// controller and resolves its command templates.
package payload

// Kind is the payload type discriminator.
type Kind string

const (
	KindCommand       Kind = "Command"
	KindDNSResolution Kind = "DnsResolution"
	KindExecutable    Kind = "Executable"
	KindFileDrop      Kind = "FileDrop"
)

// Contract is the executable payload returned by the controller for one
// inject and agent. Optional fields are pointers or empty slices; use the
// accessor methods rather than dereferencing.
type Contract struct {
	ID        *string    `json:"payload_id,omitempty"`
	Type      Kind       `json:"payload_type"                validate:"required"`
	Arguments []Argument `json:"payload_arguments,omitempty" validate:"dive"`

	// FileDropFile is the document id dropped by a FileDrop payload.
	FileDropFile *string `json:"file_drop_file,omitempty"`
	// ExecutableFile is the document id run by an Executable payload.
	ExecutableFile *string `json:"executable_file,omitempty"`
	// DNSResolutionHostname is a newline separated hostname list.
	DNSResolutionHostname *string `json:"dns_resolution_hostname,omitempty"`

	Prerequisites []Prerequisite `json:"payload_prerequisites,omitempty" validate:"dive"`

	CommandExecutor *string `json:"command_executor,omitempty"`
	CommandContent  *string `json:"command_content,omitempty"`

	CleanupExecutor *string `json:"payload_cleanup_executor,omitempty"`
	CleanupCommand  *string `json:"payload_cleanup_command,omitempty"`
}

// Argument is a named, typed argument declared by the contract.
type Argument struct {
	Type         string  `json:"type"`
	Key          string  `json:"key"                     validate:"required"`
	Description  *string `json:"description,omitempty"`
	DefaultValue *string `json:"default_value,omitempty"`
}

// Prerequisite is a dependency that must be satisfied before the main
// payload runs. GetCommand installs it; CheckCommand, when present, tells
// whether it is already satisfied.
type Prerequisite struct {
	Executor     string  `json:"executor"`
	GetCommand   string  `json:"get_command"`
	CheckCommand *string `json:"check_command,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// Command returns the main command body and executor, and whether both are
// present.
func (c *Contract) Command() (string, string, bool) {
	content := deref(c.CommandContent)
	executor := deref(c.CommandExecutor)

	return content, executor, content != "" && executor != ""
}

// Cleanup returns the cleanup command and executor, and whether a non-empty
// cleanup command is present.
func (c *Contract) Cleanup() (string, string, bool) {
	content := deref(c.CleanupCommand)

	return content, deref(c.CleanupExecutor), content != ""
}

// Check returns the check command and whether it is non-empty.
func (p Prerequisite) Check() (string, bool) {
	check := deref(p.CheckCommand)

	return check, check != ""
}

// Defaults returns the contract argument defaults keyed by argument key.
func (c *Contract) Defaults() map[string]string {
	defaults := make(map[string]string, len(c.Arguments))
	for _, arg := range c.Arguments {
		if arg.DefaultValue != nil {
			defaults[arg.Key] = *arg.DefaultValue
		}
	}

	return defaults
}

func deref(
	s *string,
) string {
	if s == nil {
		return ""
	}

	return *s
}
