package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg = newLogger("info")

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// ConfigureLogger swaps the package logger for one at the given level.
func ConfigureLogger(level string) *logrus.Logger {
	logg = newLogger(level)
	return logg
}

func GetLogger() *logrus.Logger {
	return logg
}

// LogError logs an error with module/function context
func LogError(moduleName, funcName, context string, data any, err error) {
	if err == nil {
		return
	}
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}

// LogInfo logs an informational message
func LogInfo(message string, fields ...logrus.Fields) {
	entry := logrus.NewEntry(logg)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Info(message)
}

// LogWarning logs a warning message
func LogWarning(message string, fields ...logrus.Fields) {
	entry := logrus.NewEntry(logg)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Warn(message)
}
