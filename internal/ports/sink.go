package ports

import (
	"context"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
)

type Sink interface {
	WriteReport(ctx context.Context, r *domain.Report) error
	Name() string
}
