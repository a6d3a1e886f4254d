package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/tui/model"
)

// NewProgram creates the Bubble Tea program running the dashboard.
func NewProgram(cfg model.TUIConfig) (*tea.Program, error) {
	loop := &model.ProgramLoop{}

	m, err := model.InitializeModel(cfg, loop)
	if err != nil {
		return nil, err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if cfg.Context != nil {
		opts = append(opts, tea.WithContext(cfg.Context))
	}

	p := tea.NewProgram(NewAppModel(m), opts...)
	loop.Attach(p)
	return p, nil
}
