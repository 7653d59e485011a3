package ports

import (
	"context"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
)

// Source fetches measures from an Alyvix Server or a stand-in for one.
type Source interface {
	TestCases(ctx context.Context) ([]string, error)
	Measures(ctx context.Context, testCase string) ([]domain.Measure, error)
	Name() string
}
