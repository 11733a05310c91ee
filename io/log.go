package io

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggersMu sync.Mutex
	loggers   = map[string]*logrus.Logger{}
	logOut    = logOutput{file: os.Stderr}
)

type logOutput struct {
	file  *os.File
	level logrus.Level
	set   bool
}

// NamedLogger returns the logger for the named package, creating it on
// first use. Every named logger shares the output set by SetLogFile.
func NamedLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if log, ok := loggers[name]; ok {
		return log
	}

	level := logrus.InfoLevel
	if logOut.set {
		level = logOut.level
	}
	log := &logrus.Logger{
		Out: logOut.file,
		Formatter: &CustomTextFormatter{
			TextFormatter: logrus.TextFormatter{
				FullTimestamp:    true,
				CallerPrettyfier: hideCaller,
			},
			Name: name,
		},
		Hooks:        make(logrus.LevelHooks),
		Level:        level,
		ReportCaller: true,
	}
	loggers[name] = log
	return log
}

// SetLogFile redirects every named logger to the file at fname, creating it
// if needed. An empty name restores stderr.
func SetLogFile(fname string) (*os.File, error) {
	out := os.Stderr
	if fname != "" {
		f, err := os.Create(fname)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	logOut.file = out
	for _, log := range loggers {
		log.SetOutput(out)
	}
	return out, nil
}

// SetLogLevel changes the level of every named logger, including ones
// created later.
func SetLogLevel(level logrus.Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	logOut.level, logOut.set = level, true
	for _, log := range loggers {
		log.SetLevel(level)
	}
}

// CustomTextFormatter prefixes each message with the logger's name and, if
// the logger reports callers, the file and line which logged it.
type CustomTextFormatter struct {
	logrus.TextFormatter
	Name string
}

// hideCaller keeps the caller out of the formatter's fields, since Format
// already puts it in the message.
func hideCaller(*runtime.Frame) (function, file string) { return "", "" }

// Format renders a single log entry
func (f *CustomTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%s %-15s:%03d] %s", f.Name,
			path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	} else {
		entry.Message = fmt.Sprintf("[%s] %s", f.Name, entry.Message)
	}
	return f.TextFormatter.Format(entry)
}
