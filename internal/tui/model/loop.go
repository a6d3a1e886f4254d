package model

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/dashboard"
	"applierctl/pkg/logging"
)

// ProgramLoop is the dashboard.Loop of the TUI. Tasks are delivered to the
// Bubble Tea program as TaskMsg and run by the controller inside Update.
type ProgramLoop struct {
	program atomic.Pointer[tea.Program]
}

var _ dashboard.Loop = (*ProgramLoop)(nil)

// Attach binds the loop to the program once it exists.
func (l *ProgramLoop) Attach(p *tea.Program) {
	l.program.Store(p)
}

// Post sends task to the program. Send blocks until the program reads the
// message and returns immediately once it has exited.
func (l *ProgramLoop) Post(task func()) {
	p := l.program.Load()
	if p == nil {
		logging.Warn("TUI", "Dropping dashboard task, program not attached yet")
		return
	}
	p.Send(TaskMsg{Run: task})
}
