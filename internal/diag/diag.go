// Package diag is the engine's side channel for data-quality warnings.
//
// The calculation packages never fail on malformed historical records; they
// coerce to safe zero values and report what they saw here. The default sink
// is a nop logger so library callers get silence (and determinism) for free;
// the CLI installs a real zap logger at startup.
package diag

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init installs a real logger. env follows the usual convention: "production"
// gets a JSON encoder, anything else a console encoder.
func Init(env string) {
	var base *zap.Logger
	var err error
	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
	Set(base.Sugar())
}

// Set replaces the sink. Tests use this to capture warnings.
func Set(s *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	if s == nil {
		s = zap.NewNop().Sugar()
	}
	sugar = s
}

// Warnf reports a coerced or skipped record.
func Warnf(template string, args ...interface{}) {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	s.Warnf(template, args...)
}

// Sync flushes buffered entries; call before process exit.
func Sync() {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	_ = s.Sync()
}
