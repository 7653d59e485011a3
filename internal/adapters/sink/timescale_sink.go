package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

var measureColumns = []string{
	"ts",
	"hostname",
	"domain_username",
	"test_case_alias",
	"test_case_execution_code",
	"test_case_duration_ms",
	"test_case_exit",
	"test_case_state",
	"transaction_alias",
	"transaction_performance_ms",
	"transaction_exit",
	"transaction_state",
	"transaction_warning_ms",
	"transaction_critical_ms",
}

// TimescaleSink archives the measures of every emitted execution.
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteReport(ctx context.Context, r *domain.Report) error {
	if r == nil || len(r.Transactions) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (")
	b.WriteString(strings.Join(measureColumns, ", "))
	b.WriteString(") VALUES ")

	n := len(measureColumns)
	args := make([]any, 0, len(r.Transactions)*n)
	for i, m := range r.Transactions {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for j := 0; j < n; j++ {
			if j > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", len(args)+j+1)
		}
		b.WriteString(")")

		args = append(args,
			m.Timestamp().UTC(),
			m.Hostname,
			m.DomainUsername,
			m.TestCaseAlias,
			m.TestCaseExecutionCode,
			nullInt(m.TestCaseDurationMS),
			m.TestCaseExit,
			m.TestCaseState,
			m.TransactionAlias,
			nullInt(m.TransactionPerformanceMS),
			m.TransactionExit,
			m.TransactionState,
			nullInt(m.TransactionWarningMS),
			nullInt(m.TransactionCriticalMS),
		)
	}

	b.WriteString(" ON CONFLICT (test_case_execution_code, transaction_alias, ts) DO NOTHING")

	_, err := t.db.ExecContext(ctx, b.String(), args...)
	return err
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

var _ ports.Sink = (*TimescaleSink)(nil)
