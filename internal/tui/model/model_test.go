package model_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"applierctl/internal/api"
	"applierctl/internal/dashboard"
	fakeapplier "applierctl/internal/testing"
	"applierctl/internal/tui/components"
	"applierctl/internal/tui/model"
	"applierctl/pkg/logging"
)

type taskLoop struct {
	tasks chan func()
}

func (l *taskLoop) Post(task func()) { l.tasks <- task }

func (l *taskLoop) next(t *testing.T) {
	t.Helper()
	select {
	case task := <-l.tasks:
		task()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a dashboard task")
	}
}

func setup(t *testing.T, hash string) (*model.Model, *fakeapplier.Applier, *taskLoop) {
	t.Helper()

	applier := fakeapplier.NewApplier(fakeapplier.Scenario{Modules: []fakeapplier.ModuleConfig{
		{Namespace: "dev", Name: "network", State: api.StateRunning},
		{Namespace: "dev", Name: "storage"},
		{Namespace: "ops", Name: "dns"},
	}})
	srv := applier.Start()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)

	loop := &taskLoop{tasks: make(chan func(), 16)}
	m, err := model.InitializeModel(model.TUIConfig{
		Context: context.Background(),
		Client:  client,
		Hash:    hash,
		Dashboard: dashboard.Options{
			PollInterval: 10 * time.Second,
			Clock:        clocktesting.NewFakeClock(time.Now()),
		},
	}, loop)
	require.NoError(t, err)

	page, err := client.StatusPage(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.ApplyStatusPage(page))
	return m, applier, loop
}

func TestInitializeModel_RequiresClient(t *testing.T) {
	_, err := model.InitializeModel(model.TUIConfig{}, &taskLoop{})
	assert.Error(t, err)
}

func TestEntries(t *testing.T) {
	tests := []struct {
		hash string
		want []string
	}{
		{hash: "", want: []string{"dev", "dev_network", "dev_storage", "ops", "ops_dns"}},
		{hash: "dev", want: []string{"dev", "dev_network", "dev_storage", "ops"}},
		{hash: "ops_dns", want: []string{"dev", "ops", "ops_dns"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hash %q", tt.hash), func(t *testing.T) {
			m, _, _ := setup(t, tt.hash)

			var keys []string
			for _, e := range m.Entries() {
				keys = append(keys, e.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestEntries_StateAndActive(t *testing.T) {
	m, _, _ := setup(t, "dev_network")

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Namespace)
	assert.True(t, entries[0].Active)
	assert.Equal(t, "network", entries[1].Label)
	assert.Equal(t, api.StateRunning, entries[1].State)
	assert.True(t, entries[1].Active)
	assert.False(t, entries[2].Active)
	assert.Equal(t, 1, m.Cursor)
}

func TestTargetModule(t *testing.T) {
	m, _, _ := setup(t, "")

	_, ok := m.TargetModule()
	assert.False(t, ok, "cursor on a namespace")

	m.Cursor = 2
	sel, ok := m.TargetModule()
	require.True(t, ok)
	assert.Equal(t, dashboard.Selector{Namespace: "dev", Module: "storage"}, sel)

	m.Navigate("ops_dns")
	m.Cursor = 0
	sel, ok = m.TargetModule()
	require.True(t, ok)
	assert.Equal(t, "ops_dns", sel.Key())
}

func TestParent(t *testing.T) {
	m, _, _ := setup(t, "dev_network")
	assert.Equal(t, "dev", m.Parent())

	m.Navigate("dev")
	assert.Equal(t, "", m.Parent())
}

func TestRunningModuleFinishedNotice(t *testing.T) {
	m, applier, loop := setup(t, "dev_network")
	loop.next(t)
	assert.Nil(t, m.TakeStatusCmd())

	applier.SetState("dev", "network", api.StateReady)
	m.Dashboard.Loader().Reload(dashboard.Selector{Namespace: "dev", Module: "network"})
	loop.next(t)

	require.NotNil(t, m.TakeStatusCmd())
	assert.Equal(t, "dev/network finished: Ready", m.StatusBarMessage)
	assert.Equal(t, components.StatusBarInfo, m.StatusBarMessageType)
	assert.Nil(t, m.TakeStatusCmd())
}

func TestSetStatusMessage_NewerMessageCancelsClear(t *testing.T) {
	m, _, _ := setup(t, "")

	m.SetStatusMessage("first", components.StatusBarInfo, time.Minute)
	first := m.StatusBarClearCancel
	m.SetStatusMessage("second", components.StatusBarWarning, time.Minute)

	assert.Equal(t, "second", m.StatusBarMessage)
	assert.Equal(t, components.StatusBarWarning, m.StatusBarMessageType)
	select {
	case <-first:
	default:
		t.Fatal("first clear was not cancelled")
	}
}

func TestAddRawLineToActivityLog(t *testing.T) {
	m := &model.Model{}
	for i := 0; i < model.MaxActivityLogLines+10; i++ {
		model.AddRawLineToActivityLog(m, fmt.Sprintf("line %d", i))
	}

	assert.Len(t, m.ActivityLog, model.MaxActivityLogLines)
	assert.Equal(t, "line 10", m.ActivityLog[0])
	assert.True(t, m.ActivityLogDirty)
}

func TestAddLogEntry(t *testing.T) {
	m := &model.Model{}
	model.AddLogEntry(m, logging.LogEntry{
		Timestamp: time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC),
		Level:     logging.LevelError,
		Subsystem: "RunTrigger",
		Message:   "Run of dev/network rejected",
		Err:       fmt.Errorf("409 Conflict\nmodule is locked by alice\n"),
	})

	require.Len(t, m.ActivityLog, 2)
	assert.Equal(t, "09:30:00 [ERROR] [RunTrigger] Run of dev/network rejected: 409 Conflict", m.ActivityLog[0])
	assert.Equal(t, "         [ERROR] [RunTrigger] module is locked by alice", m.ActivityLog[1])
	assert.True(t, m.ActivityLogDirty)
}

func TestAddRawLineToActivityLog_SplitsLines(t *testing.T) {
	m := &model.Model{ActivityLog: make([]string, model.MaxActivityLogLines)}
	model.AddRawLineToActivityLog(m, "first\nsecond\n")

	assert.Len(t, m.ActivityLog, model.MaxActivityLogLines)
	assert.Equal(t, []string{"first", "second"}, m.ActivityLog[len(m.ActivityLog)-2:])
}

func TestListenForLogs(t *testing.T) {
	m := &model.Model{}
	assert.Nil(t, m.ListenForLogs())

	ch := make(chan logging.LogEntry, 1)
	m.LogChannel = ch
	ch <- logging.LogEntry{Message: "hello"}
	msg := m.ListenForLogs()()
	require.IsType(t, model.NewLogEntryMsg{}, msg)
	assert.Equal(t, "hello", msg.(model.NewLogEntryMsg).Entry.Message)

	close(ch)
	assert.Nil(t, m.ListenForLogs()())
}

func TestAppModeString(t *testing.T) {
	assert.Equal(t, "LockInput", model.ModeLockInput.String())
	assert.Equal(t, "Unknown", model.AppMode(99).String())
}
