package model

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/dashboard"
	"applierctl/internal/dom"
	"applierctl/internal/tui/components"
	"applierctl/pkg/logging"
)

// AppMode represents the current mode of the application
type AppMode int

const (
	ModeInitializing AppMode = iota
	ModeMainDashboard
	ModeHashInput
	ModeLockInput
	ModeHelpOverlay
	ModeLogOverlay
	ModeQuitting
)

// String provides a human-readable representation of the AppMode.
func (m AppMode) String() string {
	switch m {
	case ModeInitializing:
		return "Initializing"
	case ModeMainDashboard:
		return "MainDashboard"
	case ModeHashInput:
		return "HashInput"
	case ModeLockInput:
		return "LockInput"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// Constants for UI
const (
	MaxActivityLogLines = 1000
	StatusMessageTTL    = 5 * time.Second
)

// StatusClient fetches the applier's status page.
type StatusClient interface {
	dashboard.Client
	StatusPage(ctx context.Context) (string, error)
}

// TUIConfig carries everything the TUI needs from the application.
type TUIConfig struct {
	Context    context.Context
	Client     StatusClient
	ServerURL  string
	Hash       string
	DebugMode  bool
	Dashboard  dashboard.Options
	LogChannel <-chan logging.LogEntry
}

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Esc         key.Binding
	Plan        key.Binding
	Apply       key.Binding
	LockID      key.Binding
	Hash        key.Binding
	Dismiss     key.Binding
	Copy        key.Binding
	Reload      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	ToggleLog   key.Binding
	ToggleDebug key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Plan, k.Apply, k.LockID, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Esc, k.Hash},
		{k.Plan, k.Apply, k.LockID, k.Dismiss},
		{k.PageUp, k.PageDown, k.Copy, k.Reload},
		{k.ToggleLog, k.ToggleDebug, k.Help, k.Quit},
	}
}

// Entry is one line of the navigator: a namespace or a visible module.
type Entry struct {
	Key       string
	Label     string
	Namespace bool
	Active    bool
	State     string
}

// Model represents the state of the TUI application
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	// Global application state
	CurrentAppMode AppMode
	LastAppMode    AppMode
	DebugMode      bool
	ServerURL      string
	QuitApp        bool

	// Dashboard
	Ctx       context.Context
	Client    StatusClient
	Doc       *dom.Document
	Loop      dashboard.Loop
	Dashboard *dashboard.Controller
	Options   dashboard.Options
	Hash      string
	PageReady bool
	PageErr   error
	Cursor    int

	// UI State & Output
	ActivityLog      []string
	ActivityLogDirty bool
	DetailViewport   viewport.Model
	LogViewport      viewport.Model
	DetailContent    string
	Spinner          spinner.Model
	HashInput        textinput.Model
	LockInput        textinput.Model
	Keys             KeyMap
	Help             help.Model

	StatusBarMessage     string
	StatusBarMessageType components.MessageType
	StatusBarClearCancel chan struct{}
	pending              *statusNotice
	lastState            string
	lastSelector         dashboard.Selector

	// Logging
	LogChannel <-chan logging.LogEntry
}

// SetStatusMessage shows message in the status bar and returns the command
// that clears it again after clearAfter. A newer message cancels the clear
// scheduled by an older one.
func (m *Model) SetStatusMessage(message string, msgType components.MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}
	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{}
		}
	})
}

// Entries lists the navigator lines for the current document: every
// namespace, each followed by its modules that the filter left visible.
func (m *Model) Entries() []Entry {
	if m.Doc == nil {
		return nil
	}

	var entries []Entry
	modules := m.Doc.QueryAll(dashboard.ModuleItemSelector)
	for _, ns := range m.Doc.QueryAll(dashboard.NamespaceItemSelector) {
		name, _ := ns.Attr(dashboard.AttrFilter)
		entries = append(entries, Entry{
			Key:       name,
			Label:     name,
			Namespace: true,
			Active:    ns.HasClass(dashboard.ClassActive),
		})

		for _, mod := range modules {
			if mod.HasClass(dashboard.ClassHidden) {
				continue
			}
			key, _ := mod.Attr(dashboard.AttrFilter)
			sel := dashboard.ParseSelector(key)
			if sel.Namespace != name || !sel.HasModule() {
				continue
			}
			state := ""
			if el := mod.Find(dashboard.ModuleStateSelector); el != nil {
				state, _ = el.Attr(dashboard.AttrState)
			}
			entries = append(entries, Entry{
				Key:    key,
				Label:  sel.Module,
				Active: mod.HasClass(dashboard.ClassActive),
				State:  state,
			})
		}
	}
	return entries
}

// SelectedEntry returns the entry under the cursor.
func (m *Model) SelectedEntry() (Entry, bool) {
	entries := m.Entries()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[clamp(m.Cursor, 0, len(entries)-1)], true
}

// TargetModule is the module a run key acts on: the selected module, or the
// module under the cursor when the hash names none.
func (m *Model) TargetModule() (dashboard.Selector, bool) {
	if m.Dashboard != nil {
		if sel := m.Dashboard.Selector(); sel.HasModule() {
			return sel, true
		}
	}
	entry, ok := m.SelectedEntry()
	if !ok || entry.Namespace {
		return dashboard.Selector{}, false
	}
	return dashboard.ParseSelector(entry.Key), true
}

// SyncCursor moves the cursor onto the entry matching the current hash.
func (m *Model) SyncCursor() {
	for i, e := range m.Entries() {
		if e.Key == m.Hash {
			m.Cursor = i
			return
		}
	}
	m.Cursor = clamp(m.Cursor, 0, max(len(m.Entries())-1, 0))
}

// RefreshDetail copies the detail pane's text into its viewport. It keeps the
// scroll position when the content did not change.
func (m *Model) RefreshDetail() {
	content := ""
	if m.Doc != nil {
		content = m.Doc.TextOf(dashboard.DetailPaneSelector)
	}
	if content == m.DetailContent {
		return
	}
	m.DetailContent = content
	m.DetailViewport.SetContent(content)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
