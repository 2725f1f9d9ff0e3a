// Package testutil holds helpers shared across package tests.
package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything, so services built in
// tests stay quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
