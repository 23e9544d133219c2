package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	setGlobal(&Telemetry{provider: provider, tracer: provider.Tracer(instrumentationName)})
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		setGlobal(nil)
	})
	return rec
}

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, tel)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestStartSpan_EndSpanRecordsError(t *testing.T) {
	rec := installRecorder(t)

	_, span := StartSpan(context.Background(), "QuestionService.Create")
	EndSpan(span, errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "QuestionService.Create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := installRecorder(t)

	r := gin.New()
	r.Use(TracingMiddleware())
	r.GET("/api/question/:id", func(c *gin.Context) {
		assert.NotEmpty(t, GetTraceID(c.Request.Context()))
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/question/abc", nil))

	assert.NotEmpty(t, w.Header().Get(TraceIDHeader))
	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/question/:id", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
