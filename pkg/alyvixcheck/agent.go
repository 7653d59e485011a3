package alyvixcheck

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ghalamif/AlyvixCheck/internal/adapters/alyvix"
	"github.com/ghalamif/AlyvixCheck/internal/adapters/checkmk"
	"github.com/ghalamif/AlyvixCheck/internal/adapters/observability"
	"github.com/ghalamif/AlyvixCheck/internal/adapters/sink"
	"github.com/ghalamif/AlyvixCheck/internal/app/pipeline"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// AgentOption customizes the dependencies used by Agent.
type AgentOption func(*agentOverrides)

type agentOverrides struct {
	source        Source
	sinks         []Sink
	writer        io.Writer
	observability Observability
	logger        *zap.Logger
	location      *time.Location
}

// WithSource replaces the Alyvix Server client (or fixture reader).
func WithSource(src Source) AgentOption {
	return func(o *agentOverrides) {
		o.source = src
	}
}

// WithSinks replaces the default stdout (and Timescale) sinks.
func WithSinks(s ...Sink) AgentOption {
	return func(o *agentOverrides) {
		o.sinks = append(o.sinks, s...)
	}
}

// WithWriter redirects the default output sink, which writes to os.Stdout.
func WithWriter(w io.Writer) AgentOption {
	return func(o *agentOverrides) {
		o.writer = w
	}
}

// WithObservability plugs in a custom logging/metrics backend.
func WithObservability(obs Observability) AgentOption {
	return func(o *agentOverrides) {
		o.observability = obs
	}
}

// WithLogger sets the zap logger used by the default observability backend.
func WithLogger(l *zap.Logger) AgentOption {
	return func(o *agentOverrides) {
		o.logger = l
	}
}

// WithLocation sets the time zone of datasource program timestamps.
func WithLocation(loc *time.Location) AgentOption {
	return func(o *agentOverrides) {
		o.location = loc
	}
}

// Agent wires source → selection → rendering → sinks for one or more test
// cases. It is meant to be created, run once, and closed.
type Agent struct {
	cfg       *Config
	runID     string
	source    ports.Source
	sinks     []ports.Sink
	obs       ports.Observability
	prom      *observability.PromObs
	formatter checkmk.Formatter
	db        *sql.DB
}

// NewAgent bootstraps the default adapters (Alyvix Server client or fixture
// reader, stdout sink, optional Timescale archive, zap + Prometheus
// observability). AgentOption values override any of them.
func NewAgent(cfg *Config, opts ...AgentOption) (*Agent, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides agentOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	runID := uuid.NewString()
	a := &Agent{cfg: cfg, runID: runID}

	obs := overrides.observability
	if obs == nil {
		logger := overrides.logger
		if logger == nil {
			logger = zap.NewNop()
		}
		a.prom = observability.NewPromObs(logger.With(zap.String("run_id", runID)))
		obs = a.prom
	}
	a.obs = obs

	src := overrides.source
	if src == nil {
		var err error
		src, err = newDefaultSource(cfg, obs)
		if err != nil {
			return nil, err
		}
	}
	a.source = src

	if len(overrides.sinks) > 0 {
		a.sinks = overrides.sinks
	} else {
		w := overrides.writer
		if w == nil {
			w = os.Stdout
		}
		a.sinks = []ports.Sink{sink.NewWriterSink(w)}

		if cfg.Timescale.ConnString != "" {
			db, err := sql.Open("postgres", cfg.Timescale.ConnString)
			if err != nil {
				return nil, err
			}
			a.db = db
			a.sinks = append(a.sinks, sink.NewTimescaleSink(db, cfg.Timescale.Table))
		}
	}

	loc := overrides.location
	if loc == nil {
		loc = time.Local
	}
	a.formatter = checkmk.Formatter{BaseURL: cfg.Alyvix.URL, Location: loc}

	return a, nil
}

func newDefaultSource(cfg *Config, obs ports.Observability) (ports.Source, error) {
	if cfg.Development.Enabled {
		return alyvix.NewFixtureSource(cfg.Development.Fixture), nil
	}
	return alyvix.NewClient(cfg.Alyvix, obs)
}

// RunID identifies this agent's run in logs.
func (a *Agent) RunID() string { return a.runID }

// Run checks the given test cases, falling back to the configured list and
// then to every test case the server knows.
func (a *Agent) Run(ctx context.Context, testCases ...string) error {
	if a == nil {
		return fmt.Errorf("agent is nil")
	}
	if len(testCases) == 0 {
		testCases = a.cfg.Alyvix.TestCases
	}

	err := pipeline.RunCheck(ctx, a.source, a.sinks, a.formatter, a.cfg.Ports(), a.obs, testCases)

	if a.prom != nil && a.cfg.Metrics.Textfile != "" {
		if werr := a.prom.WriteTextfile(a.cfg.Metrics.Textfile); werr != nil {
			a.obs.LogError("metrics_textfile_failed", werr, ports.Field{Key: "path", Value: a.cfg.Metrics.Textfile})
			err = multierror.Append(err, werr).ErrorOrNil()
		}
	}
	return err
}

// TestCases lists the test cases known to the source.
func (a *Agent) TestCases(ctx context.Context) ([]string, error) {
	return a.source.TestCases(ctx)
}

// Close releases the database connection, if any.
func (a *Agent) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
