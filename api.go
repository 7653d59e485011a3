package alyvixcheck

import (
	"io"
	"time"

	"go.uber.org/zap"

	base "github.com/ghalamif/AlyvixCheck/pkg/alyvixcheck"
)

// Re-exported errors for convenience.
var (
	ErrEmptyInput        = base.ErrEmptyInput
	ErrUnknownStatusCode = base.ErrUnknownStatusCode
)

// Type aliases so consumers can import github.com/ghalamif/AlyvixCheck directly.
type (
	Config                 = base.Config
	AlyvixConfig           = base.AlyvixConfig
	PolicyConfig           = base.PolicyConfig
	DevelopmentConfig      = base.DevelopmentConfig
	MetricsConfig          = base.MetricsConfig
	TimescaleConfig        = base.TimescaleConfig
	LogConfig              = base.LogConfig
	Agent                  = base.Agent
	AgentOption            = base.AgentOption
	Measure                = base.Measure
	Report                 = base.Report
	ReportHandler          = base.ReportHandler
	StatusCode             = base.StatusCode
	Style                  = base.Style
	Source                 = base.Source
	Sink                   = base.Sink
	Observability          = base.Observability
	Field                  = base.Field
	TransportError         = base.TransportError
	EmptyInputError        = base.EmptyInputError
	UnknownStatusCodeError = base.UnknownStatusCodeError
)

const (
	StyleLocalCheck        = base.StyleLocalCheck
	StyleDatasourceProgram = base.StyleDatasourceProgram
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Agent and options.
func NewAgent(cfg *Config, opts ...AgentOption) (*Agent, error) {
	return base.NewAgent(cfg, opts...)
}

func WithSource(src Source) AgentOption {
	return base.WithSource(src)
}

func WithSinks(s ...Sink) AgentOption {
	return base.WithSinks(s...)
}

func WithObservability(obs Observability) AgentOption {
	return base.WithObservability(obs)
}

func WithWriter(w io.Writer) AgentOption {
	return base.WithWriter(w)
}

func WithLogger(l *zap.Logger) AgentOption {
	return base.WithLogger(l)
}

func WithLocation(loc *time.Location) AgentOption {
	return base.WithLocation(loc)
}

// Sink adapters.
func NewCallbackSink(name string, fn ReportHandler) Sink {
	return base.NewCallbackSink(name, fn)
}
