package checkmk

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
)

func testMeasure(tx string, perf *int64, state int) domain.Measure {
	return domain.Measure{
		TimestampEpoch:           1619000540323290112,
		Hostname:                 "alyvixserver",
		DomainUsername:           `CO\AlyvixUser05`,
		TestCaseAlias:            "visittrentino",
		TestCaseExecutionCode:    "pb02Al05vino1619000538",
		TestCaseDurationMS:       domain.Int64(13998),
		TestCaseExit:             "true",
		TestCaseState:            0,
		TransactionAlias:         tx,
		TransactionPerformanceMS: perf,
		TransactionExit:          "true",
		TransactionState:         state,
	}
}

func testFormatter() Formatter {
	return Formatter{BaseURL: "https://alyvix.example", Location: time.UTC}
}

func TestFormatLocalCheck(t *testing.T) {
	summary := domain.Measure{
		TestCaseAlias:         "demo",
		TestCaseDurationMS:    domain.Int64(1200),
		TestCaseExecutionCode: "run42",
	}
	tx := domain.Measure{
		TestCaseAlias:            "demo",
		TransactionAlias:         "t1",
		TransactionPerformanceMS: domain.Int64(500),
	}

	out, err := testFormatter().Format(summary, []domain.Measure{tx}, StyleLocalCheck)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `0 "Alyvix demo" duration=1200;;;;|t1=500;;;;`), out)
	assert.Equal(t,
		`0 "Alyvix demo" duration=1200;;;;|t1=500;;;; Test case report: https://alyvix.example/v0/testcases/demo/reports/?runcode=run42`+"\n",
		out)
}

func TestFormatLocalCheckThresholdsAndMultipleTransactions(t *testing.T) {
	first := testMeasure("vt_home_ready", domain.Int64(4689), 0)
	first.TransactionWarningMS = domain.Int64(5000)
	first.TransactionCriticalMS = domain.Int64(8000)
	second := testMeasure("vt_search", nil, 2)
	second.TestCaseState = 2
	first.TestCaseState = 2

	out, err := testFormatter().Format(first, []domain.Measure{first, second}, StyleLocalCheck)
	require.NoError(t, err)
	assert.Equal(t,
		`2 "Alyvix visittrentino" duration=13998;;;;|vt_home_ready=4689;5000;8000;;|vt_search=;;;; Test case report: `+
			"https://alyvix.example/v0/testcases/visittrentino/reports/?runcode=pb02Al05vino1619000538\n",
		out)
}

func TestFormatDatasourceProgram(t *testing.T) {
	first := testMeasure("vt_home_ready", domain.Int64(4689), 0)
	second := testMeasure("vt_search", domain.Int64(0), 1)

	out, err := testFormatter().Format(first, []domain.Measure{first, second}, StyleDatasourceProgram)
	require.NoError(t, err)

	want := strings.Join([]string{
		"<<<alyvix_visittrentino>>>",
		`OK | Wed Apr 21 10:22:20 2021 | alyvixserver | CO\AlyvixUser05 | visittrentino | vt_home_ready | 4689 | true`,
		`WARNING | Wed Apr 21 10:22:20 2021 | alyvixserver | CO\AlyvixUser05 | visittrentino | vt_search | 0 | true`,
		`OK | Wed Apr 21 10:22:20 2021 | alyvixserver | CO\AlyvixUser05 | visittrentino | 13998 | true`,
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestFormatDatasourceProgramPadsSingleDigitDay(t *testing.T) {
	m := testMeasure("t1", domain.Int64(1), 0)
	m.TimestampEpoch = 1617235200 * int64(time.Second)

	out, err := testFormatter().Format(m, []domain.Measure{m}, StyleDatasourceProgram)
	require.NoError(t, err)
	assert.Contains(t, out, "| Thu Apr  1 00:00:00 2021 |")
}

func TestFormatOptionalFieldsRenderEmpty(t *testing.T) {
	m := testMeasure("t1", nil, 0)
	m.TestCaseDurationMS = nil

	for _, style := range []Style{StyleLocalCheck, StyleDatasourceProgram} {
		out, err := testFormatter().Format(m, []domain.Measure{m}, style)
		require.NoError(t, err)
		assert.NotContains(t, out, "null")
		assert.NotContains(t, out, "None")
		assert.NotContains(t, out, "<nil>")
	}

	out, err := testFormatter().Format(m, []domain.Measure{m}, StyleDatasourceProgram)
	require.NoError(t, err)
	assert.Contains(t, out, "| t1 |  | true\n")
	assert.Contains(t, out, "| visittrentino |  | true\n")
}

func TestFormatUnknownStatusCode(t *testing.T) {
	bad := testMeasure("t1", domain.Int64(1), 4)

	for _, style := range []Style{StyleLocalCheck, StyleDatasourceProgram} {
		_, err := testFormatter().Format(bad, []domain.Measure{bad}, style)
		var unknown *domain.UnknownStatusCodeError
		require.True(t, errors.As(err, &unknown), "style %s: %v", style, err)
		assert.Equal(t, 4, unknown.Code)
		assert.Equal(t, "transaction_state", unknown.Field)
	}

	summary := testMeasure("t1", domain.Int64(1), 0)
	summary.TestCaseState = 7
	_, err := testFormatter().Format(summary, []domain.Measure{summary}, StyleLocalCheck)
	assert.ErrorIs(t, err, domain.ErrUnknownStatusCode)
}

func TestFormatDeterministic(t *testing.T) {
	m := testMeasure("t1", domain.Int64(10), 0)
	f := testFormatter()
	for _, style := range []Style{StyleLocalCheck, StyleDatasourceProgram} {
		a, err := f.Format(m, []domain.Measure{m, m}, style)
		require.NoError(t, err)
		b, err := f.Format(m, []domain.Measure{m, m}, style)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestFormatUnknownStyle(t *testing.T) {
	m := testMeasure("t1", nil, 0)
	_, err := testFormatter().Format(m, []domain.Measure{m}, Style("xml"))
	assert.Error(t, err)
}

func TestParseStyle(t *testing.T) {
	cases := map[string]Style{
		"":                           StyleLocalCheck,
		"local":                      StyleLocalCheck,
		"checkmk_local_check":        StyleLocalCheck,
		"Datasource":                 StyleDatasourceProgram,
		"checkmk_datasource_program": StyleDatasourceProgram,
	}
	for in, want := range cases {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStyle("json")
	assert.Error(t, err)
}
