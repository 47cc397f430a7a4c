// Package logger provides the application logger: a logrus wrapper whose
// log methods take a context so request trace ids travel with every entry.
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eventhub/eventhub/config"
	"github.com/eventhub/eventhub/ctxutil"
)

// VersionKey is the log field carrying the build version.
const VersionKey = "version"

// Logger wraps logrus with context-aware log methods.
type Logger struct {
	*logrus.Logger
	version string
	logFile *os.File
	logPath string
}

var (
	standardLogger *Logger
	once           sync.Once
)

// StdLogger returns the singleton logger instance.
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = &Logger{
			Logger: logrus.New(),
		}
		standardLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return standardLogger
}

// New initializes the standard logger from configuration and returns a
// cleanup function that closes any open log file.
func New(c *config.Logger) (func(), error) {
	return StdLogger().Init(c)
}

// SetVersion sets the version for logging.
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init initializes the logger with the given configuration.
func (l *Logger) Init(c *config.Logger) (func(), error) {
	l.SetLevel(logrus.Level(c.Level))

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		l.logPath = c.OutputFile
		if l.logPath != "" {
			if err := l.setupLogFile(); err != nil {
				return nil, err
			}
			go l.periodicLogRotation()
		}
	default:
		l.SetOutput(os.Stdout)
	}

	return func() {
		if l.logFile != nil {
			_ = l.logFile.Close()
		}
	}, nil
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o777); err != nil {
		return err
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return err
		}
	}

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o666)
	if err != nil {
		return err
	}

	l.logFile = f
	l.SetOutput(l.logFile)
	return nil
}

func (l *Logger) periodicLogRotation() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := l.rotateLog(); err != nil {
			l.Logger.Errorf("Error rotating log: %v", err)
		}
	}
}

// entryFromContext creates a new log entry with fields from context.
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		fields[ctxutil.TraceIDKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}

	return l.WithFields(fields)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, args ...any) {
	l.entryFromContext(ctx).Log(level, args...)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, args ...any) {
	l.log(ctx, logrus.DebugLevel, args...)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}

func (l *Logger) Info(ctx context.Context, args ...any) {
	l.log(ctx, logrus.InfoLevel, args...)
}

func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}

func (l *Logger) Warn(ctx context.Context, args ...any) {
	l.log(ctx, logrus.WarnLevel, args...)
}

func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}

func (l *Logger) Error(ctx context.Context, args ...any) {
	l.log(ctx, logrus.ErrorLevel, args...)
}

func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}
