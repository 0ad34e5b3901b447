package log

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		got := New(Config{Level: tt.level}).GetLevel()
		if got != tt.want {
			t.Errorf("New(Level=%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(Config{Level: "info", Component: "app"}, buf)

	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"component":"app"`) {
		t.Errorf("output missing component field: %s", out)
	}
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(Config{Level: "warn"}, buf)

	logger.Info().Msg("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected info line to be filtered, got %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := WithComponent(NewWithWriter(Config{}, buf), ComponentSheets)

	logger.Info().Msg("tagged")

	if !strings.Contains(buf.String(), `"component":"sheets"`) {
		t.Errorf("output missing component field: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(Config{}, buf)

	ctx := WithContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("via context")

	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("logger from context did not write: %s", buf.String())
	}
}

func TestFromContextMissing(t *testing.T) {
	logger := FromContext(context.Background())
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected disabled logger, got level %v", logger.GetLevel())
	}
}

func TestRequestIDGenerates(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if captured == "" {
		t.Fatal("expected generated request id")
	}
	if got := rec.Header().Get("X-Request-ID"); got != captured {
		t.Errorf("header id = %q, want %q", got, captured)
	}
}

func TestRequestIDHonorsIncoming(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "abc-123" {
		t.Errorf("request id = %q, want abc-123", captured)
	}
}

func TestRequestsLogsLine(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(Config{Level: "info"}, buf)

	handler := Requests(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/months", nil))

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/api/months"`, `"status":204`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestRequestsEscalatesServerErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(Config{Level: "info"}, buf)

	handler := Requests(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("expected error level line, got %s", buf.String())
	}
}
