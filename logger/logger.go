package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Interface logger interface
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
}

type logger struct {
	lvl zap.AtomicLevel
	s   *zap.SugaredLogger
}

// NewStdLogger output log to command line
func NewStdLogger() *logger {
	return NewWriterLogger(os.Stdout)
}

// NewFileLogger output log to a file, rotated once it reaches 100MB
func NewFileLogger(filePath string) *logger {
	return NewWriterLogger(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	})
}

// NewWriterLogger output log to w
func NewWriterLogger(w io.Writer) *logger {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return &logger{
		lvl: lvl,
		s:   zap.New(core).Sugar(),
	}
}

func (l *logger) SetLevel(lvl LogLevel) {
	switch lvl {
	case LevelDebug:
		l.lvl.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		l.lvl.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		l.lvl.SetLevel(zapcore.WarnLevel)
	default:
		l.lvl.SetLevel(zapcore.ErrorLevel)
	}
}

// Sync flushes buffered entries.
func (l *logger) Sync() error {
	return l.s.Sync()
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.s.Debugf(format, v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.s.Warnf(format, v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.s.Errorf(format, v...)
}

// Fatalf logs at error level with a fatal marker. It does not exit; the
// caller decides how to shut down.
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.s.Errorw(fmt.Sprintf(format, v...), "fatal", true)
}

// ParseLevel maps debug, info, warn and error to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type nop struct{}

// Nop discards everything.
func Nop() Logger { return nop{} }

func (nop) Debugf(string, ...interface{}) {}
func (nop) Infof(string, ...interface{})  {}
func (nop) Warnf(string, ...interface{})  {}
func (nop) Errorf(string, ...interface{}) {}
func (nop) Fatalf(string, ...interface{}) {}
