// Package logger provides tagged console logging for the server and its components.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return l
}

// SetLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names leave the current level untouched.
func SetLevel(level string) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("tag", "Logger").Warnf("unknown log level %q", level)
		return
	}
	log.SetLevel(lvl)
}

// Debug logs a verbose message for the given tag.
func Debug(tag, msg string) {
	log.WithField("tag", tag).Debug(msg)
}

// Info logs an informational message for the given tag.
func Info(tag, msg string) {
	log.WithField("tag", tag).Info(msg)
}

// Success logs a completed step.
func Success(tag, msg string) {
	log.WithFields(logrus.Fields{"tag": tag, "status": "ok"}).Info(msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	log.WithField("tag", tag).Warn(msg)
}

// Error logs a failure. It never exits the process.
func Error(tag, msg string) {
	log.WithField("tag", tag).Error(msg)
}

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	line := strings.Repeat("=", 44)
	fmt.Fprintln(log.Out, line)
	fmt.Fprintf(log.Out, "  EVE Market Nexus  %s\n", version)
	fmt.Fprintln(log.Out, line)
}

// Section prints a section header.
func Section(title string) {
	fmt.Fprintf(log.Out, "--- %s ---\n", title)
}

// Stats logs a single key/value statistic.
func Stats(key string, value interface{}) {
	log.WithFields(logrus.Fields{"tag": "Stats", key: value}).Info(key)
}

// Server logs the listen address.
func Server(addr string) {
	log.WithFields(logrus.Fields{"tag": "Server", "addr": addr}).Info("Listening on http://" + addr)
}
