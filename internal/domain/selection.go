package domain

// SelectLatest keeps the records of the most recent execution. The latest
// execution is the one paired with the greatest timestamp; equal timestamps
// are resolved by the greatest execution code. Input order is preserved.
func SelectLatest(records []Measure) ([]Measure, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	best := records[0]
	for _, m := range records[1:] {
		if m.TimestampEpoch > best.TimestampEpoch ||
			(m.TimestampEpoch == best.TimestampEpoch && m.TestCaseExecutionCode > best.TestCaseExecutionCode) {
			best = m
		}
	}

	out := make([]Measure, 0, len(records))
	for _, m := range records {
		if m.TestCaseExecutionCode == best.TestCaseExecutionCode {
			out = append(out, m)
		}
	}
	return out, nil
}

// ExtractSummary designates the first record as the test case summary. The
// summary stays part of the returned transactions.
func ExtractSummary(records []Measure) (Measure, []Measure, error) {
	if len(records) == 0 {
		return Measure{}, nil, ErrEmptyInput
	}
	return records[0], records, nil
}
