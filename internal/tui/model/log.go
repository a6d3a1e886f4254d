package model

import (
	"fmt"
	"strings"

	"applierctl/pkg/logging"
)

// AddLogEntry appends entry to the activity log. Applier error bodies can span
// several lines; each continuation line repeats the level and subsystem tag so
// the log overlay styles it like the entry's first line.
func AddLogEntry(m *Model, entry logging.LogEntry) {
	lines := splitLines(entry.String())
	tag := fmt.Sprintf("%s [%s] [%s] ", strings.Repeat(" ", len("15:04:05")), entry.Level, entry.Subsystem)
	for i := 1; i < len(lines); i++ {
		lines[i] = tag + lines[i]
	}
	appendActivityLines(m, lines)
}

// AddRawLineToActivityLog appends a pre-formatted line, split on newlines.
func AddRawLineToActivityLog(m *Model, entry string) {
	appendActivityLines(m, splitLines(entry))
}

func appendActivityLines(m *Model, lines []string) {
	m.ActivityLog = append(m.ActivityLog, lines...)
	if over := len(m.ActivityLog) - MaxActivityLogLines; over > 0 {
		m.ActivityLog = m.ActivityLog[over:]
	}
	m.ActivityLogDirty = true
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
