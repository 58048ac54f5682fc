package logsvc

import (
	"fmt"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

// RollbarLogger reports to rollbar and mirrors every entry to a local zap sink.
type RollbarLogger struct {
	sink *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(sink *zap.SugaredLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{sink: sink}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Sync flushes the local sink and waits for queued rollbar items.
func (l RollbarLogger) Sync() {
	_ = l.sink.Sync()
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, user.Principal or user.User
func (l RollbarLogger) prepare(msg string, args []interface{}) ([]interface{}, []interface{}) {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	fields := make([]interface{}, 0, 2*len(args))

	setPerson := func(id, username, email string) {
		if !usrSet { // only set one user
			rollbar.SetPerson(id, username, email)
			fields = append(fields, "user", username)
			usrSet = true
		}
	}

	for i, arg := range args {
		switch a := arg.(type) {
		case user.Principal:
			setPerson(a.ID, a.Username, a.Email)
		case user.User:
			setPerson(a.ID, a.Username, a.Email)
		case error:
			newArgs = append(newArgs, a)
			fields = append(fields, "error", fmt.Sprintf("%+v", a))
		case map[string]interface{}:
			newArgs = append(newArgs, a)
			for k, v := range a {
				fields = append(fields, k, v)
			}
		default:
			newArgs = append(newArgs, a)
			fields = append(fields, fmt.Sprintf("arg%d", i), a)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs, fields
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.sink.Debugw(msg, fields...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.sink.Infow(msg, fields...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.sink.Warnw(msg, fields...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.sink.Errorw(msg, fields...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.sink.Fatalw(msg, fields...)
}
