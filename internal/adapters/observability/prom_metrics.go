package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// PromObs logs through zap and keeps check metrics in its own registry so a
// short-lived run can dump them to a node_exporter textfile.
type PromObs struct {
	log      *zap.Logger
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs(log *zap.Logger) *PromObs {
	if log == nil {
		log = zap.NewNop()
	}

	checked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alyvix_testcases_checked_total",
		Help: "Test cases rendered and emitted.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alyvix_testcases_failed_total",
		Help: "Test cases that produced no output.",
	})
	requestErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alyvix_request_errors_total",
		Help: "Failed requests to the Alyvix Server.",
	})
	unknownStates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alyvix_unknown_status_total",
		Help: "Test cases rendered after mapping invalid states to UNKNOWN.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "alyvix_last_run_timestamp_seconds",
		Help: "Unix time of the last completed check run.",
	})
	measures := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "alyvix_selected_measures",
		Help: "Measures in the latest execution of the last checked test case.",
	})
	requestLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alyvix_request_duration_seconds",
		Help:    "Latency of Alyvix Server API requests.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})
	checkLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alyvix_check_duration_seconds",
		Help:    "Time from fetch to emitted output per test case.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(checked, failed, requestErrors, unknownStates, lastRun, measures, requestLatency, checkLatency)

	return &PromObs{
		log:      log,
		registry: reg,
		counters: map[string]prometheus.Counter{
			"alyvix_testcases_checked_total": checked,
			"alyvix_testcases_failed_total":  failed,
			"alyvix_request_errors_total":    requestErrors,
			"alyvix_unknown_status_total":    unknownStates,
		},
		gauges: map[string]prometheus.Gauge{
			"alyvix_last_run_timestamp_seconds": lastRun,
			"alyvix_selected_measures":          measures,
		},
		histos: map[string]prometheus.Observer{
			"alyvix_request_duration_seconds": requestLatency,
			"alyvix_check_duration_seconds":   checkLatency,
		},
	}
}

func (p *PromObs) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile dumps the registry in the text exposition format.
func (p *PromObs) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, zapFields(fields)...)
}

func (p *PromObs) LogWarn(msg string, fields ...ports.Field) {
	p.log.Warn(msg, zapFields(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func zapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
