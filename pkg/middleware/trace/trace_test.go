package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders("x-project=rockin, authorization=Basic abc ,broken,=empty")
	assert.Equal(t, map[string]string{
		"x-project":     "rockin",
		"authorization": "Basic abc",
	}, got)
}

func TestInitTraceWithoutExporter(t *testing.T) {
	InitTrace(context.Background(), &InitConfig{ServiceName: "rockin-api", Version: "test", Env: "test"})
	_, span := otel.Tracer("test").Start(context.Background(), "startup")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	CloseTrace()
	assert.Empty(t, shutdowns)
}
