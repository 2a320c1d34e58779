package logger

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	l *logrus.Logger
}

func New(l *logrus.Logger) *Logger {
	return &Logger{l: l}
}

// Configure applies a level name and an output format ("text" or "json").
func (l *Logger) Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	l.l.SetLevel(lvl)
	l.l.SetOutput(os.Stderr)

	switch strings.ToLower(format) {
	case "json":
		l.l.SetFormatter(&logrus.JSONFormatter{}) //nolint:exhaustruct
	default:
		l.l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true}) //nolint:exhaustruct
	}

	return nil
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Infof(format, v...)
}

func (l *Logger) LogDebug(format string, v ...any) {
	l.l.Debugf(format, v...)
}

// StdLogger adapts the logger for components that want a *log.Logger, such
// as http.Server.ErrorLog. Lines are written at error level.
func (l *Logger) StdLogger() *log.Logger {
	return log.New(l.l.WriterLevel(logrus.ErrorLevel), "", 0)
}
