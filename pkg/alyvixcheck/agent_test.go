package alyvixcheck

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{"measures": [
 {"timestamp_epoch": 1619000000000000000, "hostname": "alyvixserver", "domain_username": "user",
  "test_case_alias": "visittrentino", "test_case_execution_code": "older",
  "test_case_duration_ms": 9000, "test_case_exit": "false", "test_case_state": 2,
  "transaction_alias": "vt_home_ready", "transaction_performance_ms": null, "transaction_exit": "false",
  "transaction_state": 2},
 {"timestamp_epoch": 1619000540323290112, "hostname": "alyvixserver", "domain_username": "user",
  "test_case_alias": "visittrentino", "test_case_execution_code": "newer",
  "test_case_duration_ms": 13998, "test_case_exit": "true", "test_case_state": 0,
  "transaction_alias": "vt_home_ready", "transaction_performance_ms": 4689, "transaction_exit": "true",
  "transaction_state": 0, "transaction_warning_ms": 5000, "transaction_critical_ms": 9000}
]}`

func devConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alyvix_server_response.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	cfg := &Config{
		Alyvix:      AlyvixConfig{URL: "https://alyvix.example"},
		Development: DevelopmentConfig{Enabled: true, Fixture: path},
	}
	require.NoError(t, cfg.Finalize())
	return cfg
}

func TestAgentRunDevelopmentLocalCheck(t *testing.T) {
	var out bytes.Buffer
	agent, err := NewAgent(devConfig(t), WithWriter(&out), WithLocation(time.UTC))
	require.NoError(t, err)
	defer agent.Close()

	require.NoError(t, agent.Run(context.Background()))
	assert.Equal(t,
		`0 "Alyvix visittrentino" duration=13998;;;;|vt_home_ready=4689;5000;9000;; `+
			"Test case report: https://alyvix.example/v0/testcases/visittrentino/reports/?runcode=newer\n",
		out.String())
}

func TestAgentRunDatasourceProgram(t *testing.T) {
	cfg := devConfig(t)
	cfg.Policy.Style = "datasource"
	require.NoError(t, cfg.Finalize())

	var out bytes.Buffer
	agent, err := NewAgent(cfg, WithWriter(&out), WithLocation(time.UTC))
	require.NoError(t, err)

	require.NoError(t, agent.Run(context.Background(), "visittrentino"))
	assert.Equal(t, strings.Join([]string{
		"<<<alyvix_visittrentino>>>",
		"OK | Wed Apr 21 10:22:20 2021 | alyvixserver | user | visittrentino | vt_home_ready | 4689 | true",
		"OK | Wed Apr 21 10:22:20 2021 | alyvixserver | user | visittrentino | 13998 | true",
		"",
	}, "\n"), out.String())
}

func TestAgentRunWritesMetricsTextfile(t *testing.T) {
	cfg := devConfig(t)
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "alyvix.prom")

	agent, err := NewAgent(cfg, WithWriter(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, agent.Run(context.Background()))

	raw, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "alyvix_testcases_checked_total 1")
}

func TestAgentWithCustomAdapters(t *testing.T) {
	src := &stubSource{measures: []Measure{{
		TestCaseAlias:         "demo",
		TestCaseExecutionCode: "run1",
		TransactionAlias:      "t1",
	}}}
	var reports []Report
	cb := NewCallbackSink("collect", func(r Report) error {
		reports = append(reports, r)
		return nil
	})

	agent, err := NewAgent(devConfig(t), WithSource(src), WithSinks(cb), WithObservability(&stubObservability{}))
	require.NoError(t, err)

	assert.Same(t, src, agent.source)
	assert.Nil(t, agent.prom)
	assert.NotEmpty(t, agent.RunID())

	require.NoError(t, agent.Run(context.Background(), "demo"))
	require.Len(t, reports, 1)
	assert.True(t, strings.HasPrefix(reports[0].Payload, `0 "Alyvix demo" duration=;;;;|t1=;;;;`))

	names, err := agent.TestCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)
}

func TestAgentRunReportsEmptyTestCase(t *testing.T) {
	var out bytes.Buffer
	agent, err := NewAgent(devConfig(t), WithWriter(&out))
	require.NoError(t, err)

	err = agent.Run(context.Background(), "missing")
	var empty *EmptyInputError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "missing", empty.TestCase)
	assert.Empty(t, out.String())
}

func TestNewAgentRequiresConfig(t *testing.T) {
	_, err := NewAgent(nil)
	assert.Error(t, err)
}

type stubSource struct {
	measures []Measure
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) TestCases(context.Context) ([]string, error) { return []string{"demo"}, nil }

func (s *stubSource) Measures(context.Context, string) ([]Measure, error) { return s.measures, nil }

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)         {}
func (s *stubObservability) LogWarn(string, ...Field)         {}
func (s *stubObservability) LogError(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)       {}
func (s *stubObservability) ObserveLatency(string, float64)   {}
func (s *stubObservability) SetGauge(string, float64)         {}
