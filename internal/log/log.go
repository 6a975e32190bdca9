package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is the string form of a zerolog level, usable as a pflag value.
type LogLevel string

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var Levels = []LogLevel{DEBUG, INFO, WARN, ERROR, DISABLED, TRACE}

// LogFile holds the open log file when file output is enabled, so the
// caller can close it on exit.
var LogFile *os.File

func (ll LogLevel) String() string {
	return string(ll)
}

func (ll *LogLevel) Set(v string) error {
	switch LogLevel(v) {
	case DEBUG, INFO, WARN, ERROR, DISABLED, TRACE:
		*ll = LogLevel(v)
		return nil
	default:
		return fmt.Errorf("must be one of %v", Levels)
	}
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

// InitWithLogLevel sets up the global zerolog logger at the given level,
// writing to stderr and optionally also to a file at logPath.
func InitWithLogLevel(logLevel LogLevel, logPath string) error {
	level, err := toZerologLevel(logLevel)
	if err != nil {
		return err
	}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: &zerolog.LevelWriterAdapter{Writer: os.Stderr},
			Level:  level,
		},
	}
	if logPath != "" {
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %v", err)
		}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: LogFile},
			Level:  level,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Caller().Logger()
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return nil
}

func toZerologLevel(ll LogLevel) (zerolog.Level, error) {
	switch ll {
	case DEBUG:
		return zerolog.DebugLevel, nil
	case INFO:
		return zerolog.InfoLevel, nil
	case WARN:
		return zerolog.WarnLevel, nil
	case ERROR:
		return zerolog.ErrorLevel, nil
	case DISABLED:
		return zerolog.Disabled, nil
	case TRACE:
		return zerolog.TraceLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level %q (options: %v)", ll, Levels)
}
