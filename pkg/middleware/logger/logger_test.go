package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestInitWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rockin.log")
	Init(&LogConfig{
		Path:       path,
		LogLevel:   "info",
		ServiceEnv: ServiceEnv{Platform: "rockin", Service: "api", Env: "test"},
	})
	Infof(context.Background(), "registered %s", "TestWell-C1-1")
	Debugf(context.Background(), "hidden %s", "debug line")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "registered TestWell-C1-1")
	assert.Contains(t, string(data), `"service":"api"`)
	assert.NotContains(t, string(data), "debug line")
}

func TestEntriesCarryTraceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rockin.log")
	Init(&LogConfig{Path: path, LogLevel: "info"})

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	Warnf(ctx, "scope %s busy", "cores:C1")
	Infof(context.Background(), "no span here")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "scope cores:C1 busy")
	assert.Contains(t, out, `"trace_id":"0102030405060708090a0b0c0d0e0f10"`)
	assert.Contains(t, out, `"span_id":"0a0b0c0d0e0f1011"`)
	assert.Equal(t, 1, strings.Count(out, "trace_id"))
}

func TestLogWithWriter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LogWithWriter())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
