// Package logging builds the process logger and its error-reporting hook.
package logging

import (
	"os"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/config"
)

// New returns a logger configured from cfg. Debug mode uses the text formatter at
// debug level; otherwise JSON at LOG_LEVEL. With a ROLLBAR_TOKEN, error entries are
// also reported to Rollbar.
func New(cfg *config.Config) *logrus.Logger {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if cfg.Debug {
		lvl = logrus.DebugLevel
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	l := &logrus.Logger{
		Out:       os.Stderr,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
		ExitFunc:  os.Exit,
	}

	if cfg.RollbarToken != "" {
		host, _ := os.Hostname()
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Env)
		rollbar.SetServerHost(host)
		rollbar.SetCodeVersion(cfg.Build)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
		l.AddHook(NewRollbarHook())
	}
	if err != nil {
		l.WithError(err).Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
	}
	return l
}

// RollbarHook forwards error, fatal and panic entries.
type RollbarHook struct {
	report func(level string, args ...interface{})
}

func NewRollbarHook() *RollbarHook {
	return &RollbarHook{report: func(level string, args ...interface{}) {
		if level == rollbar.CRIT {
			rollbar.Critical(args...)
			return
		}
		rollbar.Error(args...)
	}}
}

func (h *RollbarHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
}

// Fire sends the wrapped error when the entry carries one (so its stack trace is
// kept), else the message. The remaining fields travel as extras.
func (h *RollbarHook) Fire(entry *logrus.Entry) error {
	level := rollbar.ERR
	if entry.Level <= logrus.FatalLevel {
		level = rollbar.CRIT
	}

	extras := make(map[string]interface{}, len(entry.Data)+1)
	for k, v := range entry.Data {
		if k != logrus.ErrorKey {
			extras[k] = v
		}
	}

	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		extras["message"] = entry.Message
		h.report(level, err, extras)
		return nil
	}
	h.report(level, entry.Message, extras)
	return nil
}
