package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentHTTP) {
		t.Errorf("record missing component attribute: %q", out)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	logger.With(FieldRequestID, "req_abc").Info("hello")

	if !strings.Contains(buf.String(), "request_id=req_abc") {
		t.Errorf("record missing request id: %q", buf.String())
	}
}

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	ctx := IntoContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}

	// Empty context falls back to a usable default.
	if got := FromContext(context.Background()); got == nil || got.Logger == nil {
		t.Error("FromContext fallback is not usable")
	}
}
