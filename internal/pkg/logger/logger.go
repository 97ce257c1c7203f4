package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var charmLevels = map[Level]log.Level{
	DEBUG: log.DebugLevel,
	INFO:  log.InfoLevel,
	WARN:  log.WarnLevel,
	ERROR: log.ErrorLevel,
	FATAL: log.FatalLevel,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel maps a level name such as "debug" or "WARN" to a Level.
func ParseLevel(name string) (Level, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(strings.TrimSpace(name), levelName) {
			return level, nil
		}
	}
	if strings.EqualFold(strings.TrimSpace(name), "warning") {
		return WARN, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

type Logger struct {
	level Level
	log   *log.Logger
}

func New(level Level) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter builds a logger writing to w. Tests pass a buffer here.
func NewWithWriter(w io.Writer, level Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "jsontodo",
	})
	l.SetLevel(charmLevels[level])
	return &Logger{level: level, log: l}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log.Errorf(format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.log.Fatalf(format, v...) }

// Structured returns the underlying key/value logger.
func (l *Logger) Structured() *log.Logger {
	return l.log
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level = level
	l.log.SetLevel(charmLevels[level])
}

// GetLevel returns current logging level
func (l *Logger) GetLevel() Level {
	return l.level
}

// Global logger instance
var defaultLogger = New(INFO)

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

// Default returns the structured logger behind the package-level functions.
func Default() *log.Logger {
	return defaultLogger.Structured()
}

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput redirects the global logger, keeping its level.
func SetOutput(w io.Writer) {
	defaultLogger = NewWithWriter(w, defaultLogger.GetLevel())
}
