package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = newLogger("info")

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Configure resets the process logger level. Call once from startup.
func Configure(level string) *logrus.Logger {
	logger.SetLevel(parseLevel(level))
	return logger
}

// For returns an entry tagged with the module name, the way every service
// logs its side-effect failures.
func For(module string) *logrus.Entry {
	return logger.WithField("module", module)
}

func LogError(entry *logrus.Entry, funcName, context string, data any, err error) {
	fields := logrus.Fields{
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	entry.WithFields(fields).Error(err.Error())
}
