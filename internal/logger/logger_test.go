package logger

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	Init("test")

	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
	if FromContext(ctx) == nil {
		t.Error("expected a logger")
	}
}
