package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	logger  = otelzap.New(zap.NewNop())
	sugar   = logger.Sugar()
	rotator *lumberjack.Logger
)

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func Init(conf *LogConfig) {
	level := zap.NewAtomicLevelAt(parseLevel(conf.LogLevel))

	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.TimeKey = "time"
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConf), zapcore.Lock(os.Stdout), level),
	}
	if conf.Path != "" {
		rotator = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConf), zapcore.AddSync(rotator), level))
	}

	zl := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("platform", conf.ServiceEnv.Platform),
			zap.String("service", conf.ServiceEnv.Service),
			zap.String("env", conf.ServiceEnv.Env),
		))

	logger = otelzap.New(zl, otelzap.WithMinLevel(level.Level()))
	sugar = logger.Sugar()
}

// traceFields puts the span of ctx into the zap entry, otelzap only records on the span itself.
func traceFields(ctx context.Context) []any {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}
}

func Close() {
	_ = logger.Sync()
	if rotator != nil {
		_ = rotator.Close()
	}
}

func Debugf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Debugw(fmt.Sprintf(format, args...), traceFields(ctx)...)
}

func Infof(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Infow(fmt.Sprintf(format, args...), traceFields(ctx)...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Warnw(fmt.Sprintf(format, args...), traceFields(ctx)...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Errorw(fmt.Sprintf(format, args...), traceFields(ctx)...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Fatalw(fmt.Sprintf(format, args...), traceFields(ctx)...)
}
