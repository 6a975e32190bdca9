package log

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/rs/zerolog"
)

// NewLogr adapts a zerolog logger into the logr.Logger the bmclib
// inventory client wants, so both paths share one log stream.
func NewLogr(zl zerolog.Logger) logr.Logger {
	return logr.New(&zerologSink{logger: zl})
}

type zerologSink struct {
	logger zerolog.Logger
	name   string
}

func (s *zerologSink) Init(info logr.RuntimeInfo) {}

func (s *zerologSink) Enabled(level int) bool {
	// logr V-levels above 0 map to debug
	if level > 0 {
		return s.logger.GetLevel() <= zerolog.DebugLevel
	}
	return s.logger.GetLevel() <= zerolog.InfoLevel
}

func (s *zerologSink) Info(level int, msg string, keysAndValues ...any) {
	ev := s.logger.Info()
	if level > 0 {
		ev = s.logger.Debug()
	}
	s.emit(ev, msg, keysAndValues)
}

func (s *zerologSink) Error(err error, msg string, keysAndValues ...any) {
	s.emit(s.logger.Error().Err(err), msg, keysAndValues)
}

func (s *zerologSink) WithValues(keysAndValues ...any) logr.LogSink {
	ctx := s.logger.With()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return &zerologSink{logger: ctx.Logger(), name: s.name}
}

func (s *zerologSink) WithName(name string) logr.LogSink {
	if s.name != "" {
		name = s.name + "." + name
	}
	return &zerologSink{logger: s.logger, name: name}
}

func (s *zerologSink) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ev = ev.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	if s.name != "" {
		ev = ev.Str("logger", s.name)
	}
	ev.Msg(msg)
}
