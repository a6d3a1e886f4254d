package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applierctl/internal/api"
	"applierctl/internal/dashboard"
	fakeapplier "applierctl/internal/testing"
)

var fastOptions = dashboard.Options{
	PollInterval:      10 * time.Millisecond,
	RefreshDelay:      10 * time.Millisecond,
	AlertDismissDelay: time.Minute,
	RequestTimeout:    5 * time.Second,
}

func startApplier(t *testing.T) (*fakeapplier.Applier, *api.Client) {
	t.Helper()

	applier := fakeapplier.NewApplier(fakeapplier.Scenario{Modules: []fakeapplier.ModuleConfig{
		{Namespace: "dev", Name: "network", State: api.StateReady, Output: "No changes."},
		{Namespace: "dev", Name: "storage", State: api.StateRunning},
		{Namespace: "ops", Name: "dns", State: api.StateErrored, LockedBy: "alice"},
	}})
	srv := applier.Start()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return applier, client
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestListModules(t *testing.T) {
	_, client := startApplier(t)

	modules, err := ListModules(testContext(t), client, "dev")
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "dev_network", modules[0].Selector.Key())
	assert.Equal(t, api.StateReady, modules[0].State)
	assert.Equal(t, api.StateRunning, modules[1].State)

	modules, err = ListModules(testContext(t), client, "ops_dns")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.True(t, modules[0].Active)
}

func TestListModules_StatusPageError(t *testing.T) {
	applier, client := startApplier(t)
	applier.FailNext("/", http.StatusBadGateway, "upstream down")

	_, err := ListModules(testContext(t), client, "")
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusBadGateway))
}

func TestFollow_Once(t *testing.T) {
	_, client := startApplier(t)

	var reports []Report
	rep, err := Follow(testContext(t), client, fastOptions, FollowOptions{
		Hash:     "dev_network",
		Once:     true,
		OnReport: func(r Report) { reports = append(reports, r) },
	})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, api.StateReady, rep.State)
	assert.Contains(t, rep.Detail, "No changes.")
	assert.Equal(t, dashboard.Selector{Namespace: "dev", Module: "network"}, rep.Selector)
}

func TestFollow_UntilSettled(t *testing.T) {
	applier, client := startApplier(t)

	var states []string
	rep, err := Follow(testContext(t), client, fastOptions, FollowOptions{
		Hash:         "dev_storage",
		UntilSettled: true,
		OnReport: func(r Report) {
			states = append(states, r.State)
			if len(states) == 2 {
				applier.SetState("dev", "storage", api.StateErrored)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, api.StateErrored, rep.State)
	assert.Equal(t, []string{api.StateRunning, api.StateRunning, api.StateErrored}, states)
}

func TestFollow_UntilInterrupted(t *testing.T) {
	_, client := startApplier(t)
	ctx, cancel := context.WithCancel(testContext(t))

	rep, err := Follow(ctx, client, fastOptions, FollowOptions{
		Hash: "dev_storage",
		OnReport: func(r Report) {
			if r.State == api.StateRunning {
				cancel()
			}
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, api.StateRunning, rep.State)
}

func TestFollow_Errors(t *testing.T) {
	applier, client := startApplier(t)

	_, err := Follow(testContext(t), client, fastOptions, FollowOptions{Hash: "dev"})
	assert.ErrorIs(t, err, api.ErrEmptySelector)

	_, err = Follow(testContext(t), client, fastOptions, FollowOptions{Hash: "dev_missing", Once: true})
	assert.ErrorContains(t, err, "not found")

	applier.FailNext("/module", http.StatusInternalServerError, "unable to get modules")
	rep, err := Follow(testContext(t), client, fastOptions, FollowOptions{Hash: "dev_network", Once: true})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusInternalServerError))
	assert.Contains(t, rep.Detail, "unable to get modules")
}

func TestForceRun(t *testing.T) {
	applier, client := startApplier(t)

	out, err := ForceRun(testContext(t), client, fastOptions, RunOptions{
		Selector: dashboard.Selector{Namespace: "dev", Module: "network"},
		PlanOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Run queued", out.Message)

	reqs := applier.RequestsTo("/api/v1/forceRun")
	require.Len(t, reqs, 1)
	assert.Equal(t, "true", reqs[0].Payload["planOnly"])
	_, hasLock := reqs[0].Payload["lockID"]
	assert.False(t, hasLock)
	assert.True(t, applier.Queued("dev", "network"))
	assert.Equal(t, api.StateReady, applier.State("dev", "network"))
}

func TestForceRun_LockID(t *testing.T) {
	applier, client := startApplier(t)
	sel := dashboard.Selector{Namespace: "ops", Module: "dns"}

	_, err := ForceRun(testContext(t), client, fastOptions, RunOptions{Selector: sel})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusConflict))
	assert.Contains(t, api.ErrorDetail(err), "module is locked by alice")

	out, err := ForceRun(testContext(t), client, fastOptions, RunOptions{Selector: sel, LockID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Run queued", out.Message)
	reqs := applier.RequestsTo("/api/v1/forceRun")
	require.Len(t, reqs, 2)
	assert.Equal(t, "alice", reqs[1].Payload["lockID"])
	assert.Equal(t, "false", reqs[1].Payload["planOnly"])
}

func TestForceRun_Wait(t *testing.T) {
	applier, client := startApplier(t)

	var states []string
	out, err := ForceRun(testContext(t), client, fastOptions, RunOptions{
		Selector: dashboard.Selector{Namespace: "dev", Module: "network"},
		Wait:     true,
		OnReport: func(r Report) {
			states = append(states, r.State)
			if r.State == api.StateRunning {
				applier.SetState("dev", "network", api.StateReady)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Run queued", out.Message)
	assert.Equal(t, api.StateReady, out.Final.State)
	assert.Equal(t, []string{api.StateReady, api.StateRunning, api.StateReady}, states)
}

func TestForceRun_WaitWhilePending(t *testing.T) {
	applier := fakeapplier.NewApplier(fakeapplier.Scenario{
		Modules:     []fakeapplier.ModuleConfig{{Namespace: "dev", Name: "network"}},
		PickupAfter: 2,
	})
	srv := applier.Start()
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)

	var states []string
	out, err := ForceRun(testContext(t), client, fastOptions, RunOptions{
		Selector: dashboard.Selector{Namespace: "dev", Module: "network"},
		Wait:     true,
		OnReport: func(r Report) {
			states = append(states, r.State)
			if r.State == api.StateRunning {
				applier.SetState("dev", "network", api.StateReady)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, api.StateReady, out.Final.State)
	// initial load, the post-run refresh and one re-poll all see the queued
	// run before it starts
	assert.Equal(t, []string{
		api.StateReady, api.StateReady, api.StateReady, api.StateRunning, api.StateReady,
	}, states)
	assert.False(t, applier.Queued("dev", "network"))
	assert.Len(t, applier.RequestsTo("/api/v1/forceRun"), 1)
}

func TestForceRun_WaitOnRunningModuleFails(t *testing.T) {
	_, client := startApplier(t)

	_, err := ForceRun(testContext(t), client, fastOptions, RunOptions{
		Selector: dashboard.Selector{Namespace: "dev", Module: "storage"},
		Wait:     true,
	})
	require.Error(t, err)
	assert.Contains(t, api.ErrorDetail(err), "module is currently running")
}

func TestForceRun_UnknownModule(t *testing.T) {
	_, client := startApplier(t)

	_, err := ForceRun(testContext(t), client, fastOptions, RunOptions{
		Selector: dashboard.Selector{Namespace: "dev", Module: "missing"},
	})
	assert.ErrorContains(t, err, "not found")

	_, err = ForceRun(testContext(t), client, fastOptions, RunOptions{})
	assert.ErrorIs(t, err, api.ErrEmptySelector)
}
