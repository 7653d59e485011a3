package domain

// Report is the rendered check result for one test case execution.
type Report struct {
	TestCase     string
	Style        string
	Summary      Measure
	Transactions []Measure
	Payload      string
}
