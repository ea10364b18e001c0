package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetStandings", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteError_AnnotatesHandlerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("httpapi-test")

	ctx, span := tracer.Start(context.Background(), "httpapi.Handler.GetStandings")
	writeError(ctx, httptest.NewRecorder(), crerr.Wrap(usecase.ErrAccessDenied, "allsports status 403"), false)
	span.End()

	ctx, span = tracer.Start(context.Background(), "httpapi.Handler.GetStandings")
	writeError(ctx, httptest.NewRecorder(), crerr.Wrap(usecase.ErrUnsupportedLeague, "germany"), false)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected two ended spans, got %d", len(ended))
	}

	tests := []struct {
		reason string
		status int64
		code   codes.Code
	}{
		{reason: "AccessDenied", status: 500, code: codes.Error},
		{reason: "UnsupportedLeague", status: 400, code: codes.Unset},
	}
	for i, tt := range tests {
		got := map[attribute.Key]attribute.Value{}
		for _, kv := range ended[i].Attributes() {
			got[kv.Key] = kv.Value
		}
		if got["error.reason"].AsString() != tt.reason {
			t.Fatalf("span %d: expected reason %s, got %v", i, tt.reason, got["error.reason"])
		}
		if got["http.response.status_code"].AsInt64() != tt.status {
			t.Fatalf("span %d: expected status %d, got %v", i, tt.status, got["http.response.status_code"])
		}
		if ended[i].Status().Code != tt.code {
			t.Fatalf("span %d: expected span status %v, got %v", i, tt.code, ended[i].Status().Code)
		}
	}
}

func TestStartSpan_SkipsWithoutParent(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")
	_, span := startSpan(ctx, "httpapi.Handler.Healthz")
	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a parent")
	}
}
