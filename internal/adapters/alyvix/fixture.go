package alyvix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// DefaultFixturePath is the sample response read in development mode.
const DefaultFixturePath = "alyvix_server_response.json"

// FixtureSource serves a saved measures response from disk instead of a
// live server.
type FixtureSource struct {
	path string
}

func NewFixtureSource(path string) *FixtureSource {
	if path == "" {
		path = DefaultFixturePath
	}
	return &FixtureSource{path: path}
}

func (f *FixtureSource) Name() string { return "fixture" }

// TestCases returns the aliases found in the fixture in first-seen order.
func (f *FixtureSource) TestCases(ctx context.Context) ([]string, error) {
	measures, err := f.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var aliases []string
	for _, m := range measures {
		if m.TestCaseAlias == "" || seen[m.TestCaseAlias] {
			continue
		}
		seen[m.TestCaseAlias] = true
		aliases = append(aliases, m.TestCaseAlias)
	}
	return aliases, nil
}

// Measures returns the fixture records for testCase.
func (f *FixtureSource) Measures(ctx context.Context, testCase string) ([]domain.Measure, error) {
	measures, err := f.load()
	if err != nil {
		return nil, err
	}
	out := measures[:0:0]
	for _, m := range measures {
		if m.TestCaseAlias == testCase {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FixtureSource) load() ([]domain.Measure, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &ports.TransportError{URL: "file://" + f.path, Err: err}
	}
	var resp measuresResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ports.TransportError{URL: "file://" + f.path, Err: fmt.Errorf("decode fixture: %w", err)}
	}
	return resp.Measures, nil
}

var _ ports.Source = (*FixtureSource)(nil)
