package model

import "applierctl/pkg/logging"

// TaskMsg carries a dashboard task posted from a network goroutine or timer.
// It must run inside Update.
type TaskMsg struct {
	Run func()
}

// StatusPageMsg is the result of fetching the applier's status page.
type StatusPageMsg struct {
	Page string
	Err  error
}

// NewLogEntryMsg forwards an entry from the logging channel.
type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

// ClearStatusBarMsg clears the status bar message.
type ClearStatusBarMsg struct{}
