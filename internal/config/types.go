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

package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	API       API       `mapstructure:"api"       mask:"struct"`
	Implant   Implant   `mapstructure:"implant"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "none", "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"      validate:"omitempty,oneof=none stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// API configuration settings for the controller.
type API struct {
	// URL the client will connect to.
	URL string `mapstructure:"url"                   validate:"required,url"`
	// Security contains the access token presented to the controller.
	Security ClientSecurity `mapstructure:"security"              mask:"struct"`
	// UnsecuredCertificate skips TLS certificate verification.
	UnsecuredCertificate bool `mapstructure:"unsecured_certificate"`
	// WithProxy routes requests through the proxy found in the environment.
	WithProxy bool `mapstructure:"with_proxy"`
	// Timeout is the request timeout in seconds for JSON calls.
	Timeout int `mapstructure:"timeout"               validate:"gte=0"`
}

// ClientSecurity represents security-related settings for the client.
type ClientSecurity struct {
	// BearerToken is the opaque token sent with every request.
	BearerToken string `mapstructure:"bearer_token" validate:"required" mask:"password"`
}

// Implant configuration settings for one payload run.
type Implant struct {
	// AgentID identifies the agent the payload was scheduled for.
	AgentID string `mapstructure:"agent_id"       validate:"required"`
	// InjectID identifies the inject being executed.
	InjectID string `mapstructure:"inject_id"      validate:"required"`
	// Timeout is the per-process timeout in seconds (0 = none).
	Timeout int `mapstructure:"timeout"        validate:"gte=0"`
	// WorkingDir overrides the payload working directory, which defaults
	// to the directory holding the executable.
	WorkingDir string `mapstructure:"working_dir"`
	// InMemoryDrop keeps FileDrop documents in memory instead of on disk.
	InMemoryDrop bool `mapstructure:"in_memory_drop"`
	// Args are user supplied placeholder values keyed by argument key.
	Args map[string]string `mapstructure:"args"           validate:"dive,keys,arg_key,endkeys"`
}
