package logging

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/config"
)

type reported struct {
	level string
	args  []interface{}
}

func hookedLogger() (*logrus.Logger, *[]reported) {
	var got []reported
	hook := &RollbarHook{report: func(level string, args ...interface{}) {
		got = append(got, reported{level, args})
	}}
	l := logrus.New()
	l.Out = io.Discard
	l.AddHook(hook)
	return l, &got
}

func TestRollbarHook_Error(t *testing.T) {
	l, got := hookedLogger()

	cause := errors.New("mongo down")
	l.WithError(cause).WithField("uid", "u-1").Error("sync user")

	require.Len(t, *got, 1)
	r := (*got)[0]
	assert.Equal(t, rollbar.ERR, r.level)
	require.Len(t, r.args, 2)
	assert.Equal(t, cause, r.args[0])
	assert.Equal(t, map[string]interface{}{"uid": "u-1", "message": "sync user"}, r.args[1])
}

func TestRollbarHook_IgnoresLowerLevels(t *testing.T) {
	l, got := hookedLogger()

	l.Info("started")
	l.Warn("slow query")
	l.Error("plain message")

	require.Len(t, *got, 1)
	assert.Equal(t, "plain message", (*got)[0].args[0])
}

func TestNew(t *testing.T) {
	l := New(&config.Config{LogLevel: "warn"})
	assert.Equal(t, logrus.WarnLevel, l.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = New(&config.Config{LogLevel: "warn", Debug: true})
	assert.Equal(t, logrus.DebugLevel, l.Level)
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	l = New(&config.Config{LogLevel: "chatty"})
	assert.Equal(t, logrus.InfoLevel, l.Level)
}
