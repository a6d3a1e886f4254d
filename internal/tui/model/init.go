package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/api"
	"applierctl/internal/dashboard"
	"applierctl/internal/dom"
	"applierctl/internal/tui/components"
)

// InitializeModel creates the TUI model. Dashboard tasks are posted to loop.
func InitializeModel(cfg TUIConfig, loop dashboard.Loop) (*Model, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("tui requires an applier client")
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := dom.ParseString("")
	if err != nil {
		return nil, err
	}

	m := &Model{
		CurrentAppMode: ModeInitializing,
		DebugMode:      cfg.DebugMode,
		ServerURL:      cfg.ServerURL,

		Ctx:     ctx,
		Client:  cfg.Client,
		Doc:     doc,
		Loop:    loop,
		Options: cfg.Dashboard,
		Hash:    dashboard.NormalizeHash(cfg.Hash),

		Spinner:        spinner.New(),
		DetailViewport: viewport.New(80, 20),
		LogViewport:    viewport.New(80, 20),
		HashInput:      textinput.New(),
		LockInput:      textinput.New(),
		Help:           help.New(),
		Keys:           DefaultKeyMap(),

		ActivityLog: []string{},
		LogChannel:  cfg.LogChannel,
	}
	m.Dashboard = dashboard.NewController(ctx, doc, cfg.Client, loop, cfg.Dashboard)
	m.Dashboard.Trigger().OnResult(m.onRunResult)
	m.Dashboard.Loader().OnLoaded(m.onLoaded)

	m.Spinner.Spinner = spinner.Dot

	m.HashInput.Prompt = "# "
	m.HashInput.Placeholder = "namespace_module"
	m.HashInput.CharLimit = 253

	m.LockInput.Prompt = "lock id: "
	m.LockInput.Placeholder = "leave empty to respect locks"
	m.LockInput.CharLimit = 128

	return m, nil
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "up one level"),
		),
		Plan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "force plan"),
		),
		Apply: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "force apply"),
		),
		LockID: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "lock id"),
		),
		Hash: key.NewBinding(
			key.WithKeys("#", ":"),
			key.WithHelp("#", "go to hash"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss alerts"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy detail"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload page"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "u"),
			key.WithHelp("pgup", "scroll detail up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "d"),
			key.WithHelp("pgdn", "scroll detail down"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "activity log"),
		),
		ToggleDebug: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "toggle debug"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Init implements the tea.Model interface
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		m.FetchStatusPage(),
		m.ListenForLogs(),
	)
}

// ApplyStatusPage swaps in a freshly fetched page and re-applies the hash.
// The lock id typed by the operator survives the reload.
func (m *Model) ApplyStatusPage(page string) error {
	lockID := m.Dashboard.LockID()
	if err := m.Doc.Replace(page); err != nil {
		return err
	}
	m.PageReady = true
	m.PageErr = nil
	m.Dashboard.SetLockID(lockID)
	m.Dashboard.Init(m.Hash)
	m.SyncCursor()
	m.RefreshDetail()
	return nil
}

// Navigate applies a new hash, the TUI's equivalent of following a link.
func (m *Model) Navigate(hash string) {
	m.Hash = dashboard.NormalizeHash(hash)
	m.Dashboard.HashChanged(m.Hash)
	m.SyncCursor()
	m.RefreshDetail()
}

// Parent returns the hash one level above the current one.
func (m *Model) Parent() string {
	sel := dashboard.ParseSelector(m.Hash)
	if sel.HasModule() {
		return sel.Namespace
	}
	return ""
}

func (m *Model) onRunResult(res dashboard.RunResult) {
	name := res.Request.NamespacedName().String()
	if res.Err != nil {
		m.pending = &statusNotice{"Force run of " + name + " failed: " + api.ErrorDetail(res.Err), components.StatusBarError}
		return
	}
	m.pending = &statusNotice{"Force run of " + name + ": " + res.Message, components.StatusBarSuccess}
}

// onLoaded reports a module that stopped running while it was shown.
func (m *Model) onLoaded(res dashboard.LoadResult) {
	prev, prevSel := m.lastState, m.lastSelector
	m.lastState, m.lastSelector = res.State, res.Selector
	if res.Err != nil || prevSel != res.Selector {
		return
	}
	if prev == api.StateRunning && res.State != api.StateRunning {
		m.pending = &statusNotice{res.Selector.String() + " finished: " + res.State, components.StatusBarInfo}
	}
}

// statusNotice is left by dashboard callbacks, which run inside Update but
// cannot return commands themselves.
type statusNotice struct {
	message string
	kind    components.MessageType
}

// TakeStatusCmd turns a status notice left by a dashboard callback into the
// command showing it.
func (m *Model) TakeStatusCmd() tea.Cmd {
	if m.pending == nil {
		return nil
	}
	n := m.pending
	m.pending = nil
	return m.SetStatusMessage(n.message, n.kind, StatusMessageTTL)
}
