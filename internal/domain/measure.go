package domain

import "time"

// Measure is one transaction measurement as reported by the Alyvix Server.
// Records sharing TestCaseExecutionCode belong to the same execution and
// carry identical test case fields.
type Measure struct {
	TimestampEpoch int64  `json:"timestamp_epoch"` // nanoseconds
	Hostname       string `json:"hostname"`
	DomainUsername string `json:"domain_username"`

	TestCaseAlias         string `json:"test_case_alias"`
	TestCaseName          string `json:"test_case_name"`
	TestCaseArguments     string `json:"test_case_arguments"`
	TestCaseExecutionCode string `json:"test_case_execution_code"`
	TestCaseDurationMS    *int64 `json:"test_case_duration_ms"`
	TestCaseExit          string `json:"test_case_exit"`
	TestCaseState         int    `json:"test_case_state"`

	TransactionAlias         string `json:"transaction_alias"`
	TransactionName          string `json:"transaction_name"`
	TransactionGroup         string `json:"transaction_group"`
	TransactionDetectionType string `json:"transaction_detection_type"`
	TransactionPerformanceMS *int64 `json:"transaction_performance_ms"`
	TransactionExit          string `json:"transaction_exit"`
	TransactionState         int    `json:"transaction_state"`

	TransactionTimeoutMS  *int64 `json:"transaction_timeout_ms"`
	TransactionWarningMS  *int64 `json:"transaction_warning_ms"`
	TransactionCriticalMS *int64 `json:"transaction_critical_ms"`
	TransactionAccuracyMS *int64 `json:"transaction_accuracy_ms"`

	TransactionRecordText    *string `json:"transaction_record_text"`
	TransactionRecordExtract *string `json:"transaction_record_extract"`

	TransactionResolutionWidth  *int64 `json:"transaction_resolution_width"`
	TransactionResolutionHeight *int64 `json:"transaction_resolution_height"`
	TransactionScalingFactor    *int64 `json:"transaction_scaling_factor"`
}

func (m Measure) Timestamp() time.Time {
	return time.Unix(0, m.TimestampEpoch)
}

// WithUnknownStates returns a copy whose out-of-range states are replaced
// by StatusUnknown.
func (m Measure) WithUnknownStates() Measure {
	if !StatusCode(m.TestCaseState).Valid() {
		m.TestCaseState = int(StatusUnknown)
	}
	if !StatusCode(m.TransactionState).Valid() {
		m.TransactionState = int(StatusUnknown)
	}
	return m
}

// ConsistencyIssues lists the test case fields that differ between the
// first record and any later record of the same execution.
func ConsistencyIssues(records []Measure) []string {
	if len(records) < 2 {
		return nil
	}
	first := records[0]
	seen := make(map[string]bool)
	var issues []string
	flag := func(field string, differs bool) {
		if differs && !seen[field] {
			seen[field] = true
			issues = append(issues, field)
		}
	}
	for _, m := range records[1:] {
		flag("test_case_alias", m.TestCaseAlias != first.TestCaseAlias)
		flag("test_case_name", m.TestCaseName != first.TestCaseName)
		flag("test_case_arguments", m.TestCaseArguments != first.TestCaseArguments)
		flag("test_case_duration_ms", !equalInt(m.TestCaseDurationMS, first.TestCaseDurationMS))
		flag("test_case_exit", m.TestCaseExit != first.TestCaseExit)
		flag("test_case_state", m.TestCaseState != first.TestCaseState)
	}
	return issues
}

func equalInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Int64 is a helper for building optional fields.
func Int64(v int64) *int64 { return &v }
