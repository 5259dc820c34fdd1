package logs

import (
	"log/slog"

	"go.uber.org/zap"
)

// Logger 提供统一的结构化日志入口，引擎只依赖这个接口。
// args 为交替的 key/value。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogWrapper struct{}

func (slogWrapper) Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func (slogWrapper) Info(msg string, args ...any)  { slog.Info(msg, args...) }
func (slogWrapper) Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func (slogWrapper) Error(msg string, args ...any) { slog.Error(msg, args...) }

// DefaultLogger 可在不同模块注入，便于替换。
var DefaultLogger Logger = slogWrapper{}

type zapWrapper struct {
	s *zap.SugaredLogger
}

// FromZap adapts a zap logger; key/value pairs become structured fields.
func FromZap(l *zap.Logger) Logger {
	if l == nil {
		return Nop()
	}
	return zapWrapper{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z zapWrapper) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z zapWrapper) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z zapWrapper) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z zapWrapper) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop discards everything.
func Nop() Logger { return nop{} }
