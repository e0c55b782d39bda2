// Package dtlog is the package-level diagnostic logger shared by the
// device-tracking core. It defaults to log.Printf but may be redirected
// by tests or by a hosting process.
package dtlog

import "log"

// Logf is the non-fatal diagnostic sink used by the gps arbiter and
// providers (bad configs, read and fetch errors) and by cmd/devicetrackerd
// (lifecycle, eviction and reap counts).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
