package alyvixcheck

import (
	"context"
	"fmt"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
)

// ReportHandler is invoked with every rendered report.
type ReportHandler func(Report) error

// NewCallbackSink adapts a ReportHandler into a Sink so callers can plug
// arbitrary functions without defining structs.
func NewCallbackSink(name string, fn ReportHandler) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

type callbackSink struct {
	name string
	fn   ReportHandler
}

func (s *callbackSink) WriteReport(_ context.Context, r *domain.Report) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if r == nil {
		return nil
	}
	return s.fn(*r)
}

func (s *callbackSink) Name() string { return s.name }
