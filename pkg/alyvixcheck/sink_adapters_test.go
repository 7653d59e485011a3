package alyvixcheck

import (
	"context"
	"testing"
)

func TestNewCallbackSink(t *testing.T) {
	var received []Report
	sink := NewCallbackSink("cb", func(r Report) error {
		received = append(received, r)
		return nil
	})

	input := &Report{TestCase: "demo", Payload: "0 \"Alyvix demo\" duration=;;;;\n"}
	if err := sink.WriteReport(context.Background(), input); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	if len(received) != 1 || received[0].TestCase != "demo" {
		t.Fatalf("unexpected reports: %+v", received)
	}
	if sink.Name() != "cb" {
		t.Fatalf("unexpected name %s", sink.Name())
	}
}

func TestNewCallbackSinkNilHandler(t *testing.T) {
	sink := NewCallbackSink("", nil)
	if sink.Name() != "callback" {
		t.Fatalf("expected default name, got %s", sink.Name())
	}
	if err := sink.WriteReport(context.Background(), &Report{}); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
}
