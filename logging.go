package blendbuild

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the logger used by the build pipeline. Output goes to
// stderr so that stdout stays free for link directives and flag listings.
func NewLogger(verbose bool) *logrus.Logger {
	return newLogger(os.Stderr, verbose)
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
