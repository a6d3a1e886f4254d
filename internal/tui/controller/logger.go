package controller

import (
	"applierctl/internal/tui/model"
	"applierctl/pkg/logging"
)

const controllerSubsystem = "TUI"

// LogDebug logs a debug-level message. It respects the TUI model's DebugMode
// flag.
func LogDebug(m *model.Model, format string, a ...interface{}) {
	if m != nil && m.DebugMode {
		logging.Debug(controllerSubsystem, format, a...)
	}
}

// LogError logs an error message.
func LogError(err error, format string, a ...interface{}) {
	logging.Error(controllerSubsystem, err, format, a...)
}
