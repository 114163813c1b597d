/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package log

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ortuman/c2sgate/instance"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var exitHandler = func() { os.Exit(-1) }

// singleton interface
var (
	instMu sync.RWMutex
	inst   *zap.SugaredLogger
)

// Initialize initializes the default log subsystem.
func Initialize(cfg *Config) error {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level.zapLevel())
	zcfg.Encoding = "console"
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zcfg.InitialFields = map[string]interface{}{
		"instance_id": instance.ID(),
	}
	zcfg.OutputPaths = []string{"stdout"}
	if len(cfg.LogPath) > 0 {
		// create logFile intermediate directories.
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), os.ModePerm); err != nil {
			return err
		}
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.LogPath)
	}
	lg, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	setLogger(lg)
	return nil
}

// InitializeWithCore initializes the default log subsystem on top of an already built zap core.
func InitializeWithCore(core zapcore.Core) {
	setLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// Shutdown flushes and shuts down log sub system.
func Shutdown() {
	instMu.Lock()
	defer instMu.Unlock()
	if inst != nil {
		_ = inst.Sync()
		inst = nil
	}
}

func setLogger(lg *zap.Logger) {
	instMu.Lock()
	defer instMu.Unlock()
	if inst != nil {
		_ = inst.Sync()
	}
	inst = lg.Sugar()
}

func logger() *zap.SugaredLogger {
	instMu.RLock()
	defer instMu.RUnlock()
	return inst
}

// Debugf logs a 'debug' message.
func Debugf(format string, args ...interface{}) {
	if l := logger(); l != nil {
		l.Debugf(format, args...)
	}
}

// Debugw logs a 'debug' message with some additional context.
func Debugw(msg string, keysAndValues ...interface{}) {
	if l := logger(); l != nil {
		l.Debugw(msg, keysAndValues...)
	}
}

// Infof logs an 'info' message.
func Infof(format string, args ...interface{}) {
	if l := logger(); l != nil {
		l.Infof(format, args...)
	}
}

// Infow logs an 'info' message with some additional context.
func Infow(msg string, keysAndValues ...interface{}) {
	if l := logger(); l != nil {
		l.Infow(msg, keysAndValues...)
	}
}

// Warnf logs a 'warning' message.
func Warnf(format string, args ...interface{}) {
	if l := logger(); l != nil {
		l.Warnf(format, args...)
	}
}

// Warnw logs a 'warning' message with some additional context.
func Warnw(msg string, keysAndValues ...interface{}) {
	if l := logger(); l != nil {
		l.Warnw(msg, keysAndValues...)
	}
}

// Errorf logs an 'error' message.
func Errorf(format string, args ...interface{}) {
	if l := logger(); l != nil {
		l.Errorf(format, args...)
	}
}

// Error logs an 'error' value.
func Error(err error) {
	if l := logger(); l != nil {
		l.Error(err.Error())
	}
}

// Fatalf logs a 'fatal' message and exits the process.
func Fatalf(format string, args ...interface{}) {
	if l := logger(); l != nil {
		l.Errorf(format, args...)
		_ = l.Sync()
	}
	exitHandler()
}

// Fatal logs a 'fatal' error and exits the process.
func Fatal(err error) {
	Fatalf("%v", err)
}
