package bchain

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)
	LogRepeatedNext(err error)
	LogResponseMisuse(err error)
	LogErrorHandlerPanic(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bchain: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("bchain: error while ending response implicitly: %s", err)
}

func (l stdLogger) LogRepeatedNext(err error) {
	l.Logger.Printf("bchain: next called more than once: %s", err)
}

func (l stdLogger) LogResponseMisuse(err error) {
	l.Logger.Printf("bchain: response misuse: %s", err)
}

func (l stdLogger) LogErrorHandlerPanic(err error) {
	l.Logger.Printf("bchain: error handler panicked: %s", err)
}

// NewStdLogger adapts a standard library logger. A nil logger means log.Default().
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

// TestLogger logs to a testing.TB and counts every call so tests can assert on them.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumLogRepeatedNext        int64
	NumLogResponseMisuse      int64
	NumLogErrorHandlerPanic   int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bchain: unhandled server error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("bchain: error while ending response implicitly: %s", err)
}

func (l *TestLogger) LogRepeatedNext(err error) {
	atomic.AddInt64(&l.NumLogRepeatedNext, 1)
	l.tb.Logf("bchain: next called more than once: %s", err)
}

func (l *TestLogger) LogResponseMisuse(err error) {
	atomic.AddInt64(&l.NumLogResponseMisuse, 1)
	l.tb.Logf("bchain: response misuse: %s", err)
}

func (l *TestLogger) LogErrorHandlerPanic(err error) {
	atomic.AddInt64(&l.NumLogErrorHandlerPanic, 1)
	l.tb.Logf("bchain: error handler panicked: %s", err)
}

var _ Logger = &TestLogger{}
