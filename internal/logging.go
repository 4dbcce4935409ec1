package internal

// Internal logging utility.

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Logger struct {
	logLevel LogLevel
	logger   *log.Logger
}

type LogLevel int

const (
	// error levels that should almost always be printed
	LevelFatal LogLevel = iota // not used for exiting, only to silence all output
	LevelError                 // error that does not need to stop execution

	// debugging levels, okay to disable
	LevelWarn // something may be wrong, but not necessarily an error
	LevelInfo // nothing wrong, informational only

	// Production code by default only shows warnings and above.
	LogLevelDefault = LevelWarn

	// min, max levels for setting print level
	LevelMin = LevelFatal
	LevelMax = LevelInfo
)

var (
	levelToPrefix = []string{
		"FATAL ",
		"ERROR ",
		"WARN ",
		"INFO ",
	}
)

// NewLogger returns a logger writing to stderr.
// Each line is tagged with the component name.
func NewLogger(component string) *Logger {
	return NewLoggerTo(os.Stderr, component)
}

// NewLoggerTo is like NewLogger, but writes to w.
func NewLoggerTo(w io.Writer, component string) *Logger {
	logger := log.New(w, component+": ", log.LstdFlags|log.Lmsgprefix)
	return &Logger{logLevel: LogLevelDefault, logger: logger}
}

func (l *Logger) LogLevel() LogLevel {
	return l.logLevel
}

// SetLogLevel returns the old level
func (l *Logger) SetLogLevel(level LogLevel) LogLevel {
	if level < LevelMin || level > LevelMax {
		panic("trying to set invalid log level")
	}
	old := l.logLevel
	l.logLevel = level
	return old
}

// SetLogLevelInt maps 0 (nothing) through 3 (everything) to a level and
// returns the old one. Out of range values are clamped.
func (l *Logger) SetLogLevelInt(level int) int {
	switch {
	case level <= int(LevelMin):
		level = int(LevelMin)
	case level >= int(LevelMax):
		level = int(LevelMax)
	}
	return int(l.SetLogLevel(LogLevel(level)))
}

func (l *Logger) output(level LogLevel, s string) {
	if level > l.logLevel {
		return
	}
	l.logger.Output(3, levelToPrefix[level]+s)
}

func (l *Logger) Info(v ...interface{})                 { l.output(LevelInfo, fmt.Sprintln(v...)) }
func (l *Logger) Infof(format string, v ...interface{}) { l.output(LevelInfo, fmt.Sprintf(format, v...)) }

func (l *Logger) Warn(v ...interface{})                 { l.output(LevelWarn, fmt.Sprintln(v...)) }
func (l *Logger) Warnf(format string, v ...interface{}) { l.output(LevelWarn, fmt.Sprintf(format, v...)) }

func (l *Logger) Errorf(format string, v ...interface{}) { l.output(LevelError, fmt.Sprintf(format, v...)) }
