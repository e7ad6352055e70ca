package main

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Now == nil || env.Stdout == nil || env.Stderr == nil || env.Logger == nil {
		t.Fatalf("DefaultEnv() has nil fields: %+v", env)
	}
	if env.Logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("default logger is not silent")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	quiet, err := newLogger(false)
	if err != nil {
		t.Fatalf("newLogger(false): %v", err)
	}
	if quiet.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("non-verbose logger enabled")
	}

	verbose, err := newLogger(true)
	if err != nil {
		t.Fatalf("newLogger(true): %v", err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger does not log debug")
	}
}
