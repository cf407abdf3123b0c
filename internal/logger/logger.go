// Package logger configures the process-wide logrus logger.
//
// Output goes to stderr: stdout is reserved for the MCP protocol stream.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the shared logger. It starts at info level with a text
// formatter on stderr; call Configure to change either.
var Logger = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(textFormatter())
	return l
}

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	}
}

// ParseLevel maps a level name to a logrus level. Case and surrounding
// space are ignored and the empty name yields info; anything logrus does
// not know is an error.
func ParseLevel(name string) (logrus.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(name)
}

// Configure sets the level and picks JSON or text output. An unknown level
// leaves the logger untouched.
func Configure(level string, json bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	if json {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		Logger.SetFormatter(textFormatter())
	}
	return nil
}

// SetOutput redirects the logger; tests use it to capture output.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
