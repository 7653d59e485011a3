package sink

import (
	"context"
	"io"
	"sync"

	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// WriterSink emits each rendered report as one uninterrupted write.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Name() string { return "writer" }

func (s *WriterSink) WriteReport(_ context.Context, r *domain.Report) error {
	if r == nil || r.Payload == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, r.Payload)
	return err
}

var _ ports.Sink = (*WriterSink)(nil)
