package logger

import (
	"context"
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"

	"spacetraveling/cmd/web/trace"
)

// Logger 는 애플리케이션 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거 인스턴스다. Init 전에도 info 레벨로 동작한다.
var Log Logger = NewLogger("info")

// serviceName 은 모든 구조화 로그의 service_name 필드 값이다.
var serviceName string

// Init 은 레벨과 서비스 이름으로 전역 로거를 교체한다.
// level 이 비어 있으면 info, SERVICE_NAME 환경변수가 있으면 service 보다 우선한다.
func Init(level, service string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)

	serviceName = service
	if sn := os.Getenv("SERVICE_NAME"); sn != "" {
		serviceName = sn
	}
}

// NewLogger 는 datetime/level/message 와 Fields 만 출력하는 JSON 콘솔 로거를 만든다.
func NewLogger(level string) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))

	return slog.NewWithHandlers(h)
}

// WithContext 는 ctx 의 request_id / span_id 를 fields 에 채운다.
// 이미 값이 있는 키는 덮어쓰지 않는다.
func WithContext(ctx context.Context, fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	requestID := trace.RequestIDFromContext(ctx)
	if requestID == "" {
		return fields
	}
	if _, ok := fields["request_id"]; !ok {
		fields["request_id"] = requestID
	}
	if _, ok := fields["span_id"]; !ok {
		fields["span_id"] = trace.CurrentSpanID(ctx)
	}
	return fields
}

func InfoWithFields(msg string, fields Fields)  { logWithFields(slog.InfoLevel, msg, fields) }
func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }
func WarnWithFields(msg string, fields Fields)  { logWithFields(slog.WarnLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }

// logWithFields 는 gookit/slog 로거면 Fields 를 top-level 키로 출력하고,
// 다른 구현이면 메시지만 남긴다.
func logWithFields(level slog.Level, msg string, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok && serviceName != "" {
		fields["service_name"] = serviceName
	}

	lg, ok := Log.(*slog.Logger)
	if !ok {
		logPlain(level, msg)
		return
	}
	rec := lg.WithFields(slog.M(fields))
	switch level {
	case slog.DebugLevel:
		rec.Debug(msg)
	case slog.WarnLevel:
		rec.Warn(msg)
	case slog.ErrorLevel:
		rec.Error(msg)
	default:
		rec.Info(msg)
	}
}

func logPlain(level slog.Level, msg string) {
	switch level {
	case slog.DebugLevel:
		Log.Debug(msg)
	case slog.WarnLevel:
		Log.Warn(msg)
	case slog.ErrorLevel:
		Log.Error(msg)
	default:
		Log.Info(msg)
	}
}
