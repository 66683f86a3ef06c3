// Package oitlog sets up the process-wide structured logger, in the manner
// of lazydocker's pkg/log: JSON lines to a file in debug mode; otherwise
// all output, errors included, is discarded.
package oitlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures logger construction.
type Options struct {
	Debug     bool
	ConfigDir string
	Version   string
}

// New returns a logrus.Entry carrying static fields (version, debug) that
// every subsystem logs through.
func New(opts Options) *logrus.Entry {
	var logger *logrus.Logger
	if opts.Debug || os.Getenv("DEBUG") == "TRUE" {
		logger = newDevelopmentLogger(opts.ConfigDir)
	} else {
		logger = newProductionLogger()
	}
	logger.Formatter = &logrus.JSONFormatter{}

	return logger.WithFields(logrus.Fields{
		"debug":   opts.Debug,
		"version": opts.Version,
	})
}

func getLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(configDir string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(getLogLevel())
	path := filepath.Join(configDir, "development.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to log to %s: %v\n", path, err)
		logger.SetOutput(io.Discard)
		return logger
	}
	logger.SetOutput(file)
	return logger
}

func newProductionLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}
