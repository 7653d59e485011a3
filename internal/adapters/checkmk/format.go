// Package checkmk renders Alyvix measures into the Checkmk local check and
// datasource program output formats.
package checkmk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
)

const (
	datasourceSeparator = " | "
	perfSeparator       = "|"
)

// Formatter renders one test case execution. It holds no per-call state and
// is safe for concurrent use.
type Formatter struct {
	// BaseURL is the Alyvix Server URL used for the report link.
	BaseURL string
	// Location is used for datasource timestamps. Nil means time.Local.
	Location *time.Location
}

// Format renders summary and transactions in the given style. Any state
// outside OK..UNKNOWN fails with *domain.UnknownStatusCodeError.
func (f Formatter) Format(summary domain.Measure, transactions []domain.Measure, style Style) (string, error) {
	switch style {
	case StyleDatasourceProgram:
		return f.datasourceProgram(summary, transactions)
	case StyleLocalCheck:
		return f.localCheck(summary, transactions)
	default:
		return "", fmt.Errorf("unknown output style %q", style)
	}
}

func (f Formatter) datasourceProgram(summary domain.Measure, transactions []domain.Measure) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<<<alyvix_%s>>>\n", summary.TestCaseAlias)

	for _, m := range transactions {
		state, err := domain.ParseStatusCode(m.TransactionState, "transaction_state")
		if err != nil {
			return "", fmt.Errorf("transaction %q: %w", m.TransactionAlias, err)
		}
		writeFields(&b,
			state.String(),
			f.ctime(m),
			m.Hostname,
			m.DomainUsername,
			m.TestCaseAlias,
			m.TransactionAlias,
			optional(m.TransactionPerformanceMS),
			m.TransactionExit,
		)
	}

	state, err := domain.ParseStatusCode(summary.TestCaseState, "test_case_state")
	if err != nil {
		return "", fmt.Errorf("test case %q: %w", summary.TestCaseAlias, err)
	}
	writeFields(&b,
		state.String(),
		f.ctime(summary),
		summary.Hostname,
		summary.DomainUsername,
		summary.TestCaseAlias,
		optional(summary.TestCaseDurationMS),
		summary.TestCaseExit,
	)
	return b.String(), nil
}

func (f Formatter) localCheck(summary domain.Measure, transactions []domain.Measure) (string, error) {
	state, err := domain.ParseStatusCode(summary.TestCaseState, "test_case_state")
	if err != nil {
		return "", fmt.Errorf("test case %q: %w", summary.TestCaseAlias, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d \"Alyvix %s\" duration=%s;;;;",
		int(state), summary.TestCaseAlias, optional(summary.TestCaseDurationMS))

	for _, m := range transactions {
		if _, err := domain.ParseStatusCode(m.TransactionState, "transaction_state"); err != nil {
			return "", fmt.Errorf("transaction %q: %w", m.TransactionAlias, err)
		}
		b.WriteString(perfSeparator)
		fmt.Fprintf(&b, "%s=%s;%s;%s;;",
			m.TransactionAlias,
			optional(m.TransactionPerformanceMS),
			optional(m.TransactionWarningMS),
			optional(m.TransactionCriticalMS),
		)
	}

	b.WriteString(" Test case report: ")
	b.WriteString(ReportURL(f.BaseURL, summary.TestCaseAlias, summary.TestCaseExecutionCode))
	b.WriteByte('\n')
	return b.String(), nil
}

// ReportURL links to the Alyvix Server report of one execution.
func ReportURL(baseURL, testCase, executionCode string) string {
	return fmt.Sprintf("%s/v0/testcases/%s/reports/?runcode=%s", baseURL, testCase, executionCode)
}

// ctime mirrors C ctime(3): whole seconds, space padded day of month.
func (f Formatter) ctime(m domain.Measure) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return m.Timestamp().In(loc).Format(time.ANSIC)
}

func writeFields(b *strings.Builder, fields ...string) {
	b.WriteString(strings.Join(fields, datasourceSeparator))
	b.WriteByte('\n')
}

// optional renders absent values as the empty string.
func optional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
