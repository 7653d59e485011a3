package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ghalamif/AlyvixCheck/internal/adapters/checkmk"
	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// RunCheck renders the latest execution of each test case and hands it to
// every sink. With no aliases, the source's test case list is used. Test
// cases run one after another; a failing test case emits nothing and the
// remaining ones still run. All failures are returned together.
func RunCheck(ctx context.Context, src ports.Source, sinks []ports.Sink, f checkmk.Formatter, pol ports.Policy, obs ports.Observability, aliases []string) error {
	style, err := checkmk.ParseStyle(pol.Style)
	if err != nil {
		return err
	}

	if len(aliases) == 0 {
		aliases, err = listTestCases(ctx, src, pol)
		if err != nil {
			obs.LogError("list_test_cases_failed", err, ports.Field{Key: "source", Value: src.Name()})
			return err
		}
		obs.LogInfo("test_cases_discovered", ports.Field{Key: "count", Value: len(aliases)})
	}

	var errs *multierror.Error
	for _, alias := range aliases {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		start := time.Now()
		report, err := buildReport(ctx, src, f, style, pol, obs, alias)
		if err == nil {
			err = emit(ctx, sinks, report)
		}
		if err != nil {
			obs.IncCounter("alyvix_testcases_failed_total", 1)
			obs.LogError("test_case_failed", err, ports.Field{Key: "test_case", Value: alias})
			errs = multierror.Append(errs, fmt.Errorf("test case %s: %w", alias, err))
			continue
		}
		obs.ObserveLatency("alyvix_check_duration_seconds", time.Since(start).Seconds())
		obs.IncCounter("alyvix_testcases_checked_total", 1)
	}

	obs.SetGauge("alyvix_last_run_timestamp_seconds", float64(time.Now().Unix()))
	return errs.ErrorOrNil()
}

func listTestCases(ctx context.Context, src ports.Source, pol ports.Policy) ([]string, error) {
	ctx, cancel := withRequestTimeout(ctx, pol)
	defer cancel()
	return src.TestCases(ctx)
}

func fetch(ctx context.Context, src ports.Source, pol ports.Policy, alias string) ([]domain.Measure, error) {
	ctx, cancel := withRequestTimeout(ctx, pol)
	defer cancel()
	return src.Measures(ctx, alias)
}

func buildReport(ctx context.Context, src ports.Source, f checkmk.Formatter, style checkmk.Style, pol ports.Policy, obs ports.Observability, alias string) (*domain.Report, error) {
	measures, err := fetch(ctx, src, pol, alias)
	if err != nil {
		return nil, err
	}

	latest, err := domain.SelectLatest(measures)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return nil, &domain.EmptyInputError{TestCase: alias}
		}
		return nil, err
	}
	obs.SetGauge("alyvix_selected_measures", float64(len(latest)))

	if issues := domain.ConsistencyIssues(latest); len(issues) > 0 {
		obs.LogWarn("inconsistent_test_case_fields",
			ports.Field{Key: "test_case", Value: alias},
			ports.Field{Key: "execution_code", Value: latest[0].TestCaseExecutionCode},
			ports.Field{Key: "fields", Value: issues})
	}

	summary, transactions, err := domain.ExtractSummary(latest)
	if err != nil {
		return nil, err
	}

	payload, summary, transactions, err := render(f, style, pol, obs, alias, summary, transactions)
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		TestCase:     alias,
		Style:        string(style),
		Summary:      summary,
		Transactions: transactions,
		Payload:      payload,
	}, nil
}

// render formats strictly first. Outside strict mode, records with invalid
// states are rendered again with those states mapped to UNKNOWN, and the
// normalized records are returned in place of the originals.
func render(f checkmk.Formatter, style checkmk.Style, pol ports.Policy, obs ports.Observability, alias string, summary domain.Measure, transactions []domain.Measure) (string, domain.Measure, []domain.Measure, error) {
	payload, err := f.Format(summary, transactions, style)
	if err == nil {
		return payload, summary, transactions, nil
	}
	if pol.Strict || !errors.Is(err, domain.ErrUnknownStatusCode) {
		return "", summary, transactions, err
	}

	obs.LogWarn("unknown_status_mapped",
		ports.Field{Key: "test_case", Value: alias},
		ports.Field{Key: "cause", Value: err.Error()})
	obs.IncCounter("alyvix_unknown_status_total", 1)

	normalized := make([]domain.Measure, len(transactions))
	for i, m := range transactions {
		normalized[i] = m.WithUnknownStates()
	}
	summary = summary.WithUnknownStates()

	payload, err = f.Format(summary, normalized, style)
	if err != nil {
		return "", summary, normalized, fmt.Errorf("render normalized records: %w", err)
	}
	return payload, summary, normalized, nil
}

func emit(ctx context.Context, sinks []ports.Sink, report *domain.Report) error {
	var errs *multierror.Error
	for _, s := range sinks {
		if err := s.WriteReport(ctx, report); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
		}
	}
	return errs.ErrorOrNil()
}

func withRequestTimeout(ctx context.Context, pol ports.Policy) (context.Context, context.CancelFunc) {
	if pol.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, pol.RequestTimeout)
}
