package logger

import (
	"github.com/golang/glog"
)

// GlogLogger implements the Logger interface on top of glog with a configurable call depth,
// so log lines point at the caller instead of this file.
type GlogLogger struct {
	depth int
}

func (logger *GlogLogger) Debugf(msg string, args ...any) {
	if glog.V(2) {
		glog.InfoDepthf(logger.depth, msg, args...)
	}
}

func (logger *GlogLogger) Infof(msg string, args ...any) {
	glog.InfoDepthf(logger.depth, msg, args...)
}

func (logger *GlogLogger) Warnf(msg string, args ...any) {
	glog.WarningDepthf(logger.depth, msg, args...)
}

func (logger *GlogLogger) Errorf(msg string, args ...any) {
	glog.ErrorDepthf(logger.depth, msg, args...)
}

func NewGlogLogger() Logger {
	return &GlogLogger{
		depth: 1,
	}
}
