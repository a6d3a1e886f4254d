package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applierctl/internal/api"
	"applierctl/internal/dashboard"
)

func TestControllerInit(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network", "dev_dns", "prod_network")
	h.client.setDetail("dev_network", fragment(api.StateReady, ""))

	h.ctrl.Init("#dev_network")
	h.step()

	assert.Equal(t, "dev_network", h.ctrl.Hash())
	assert.Equal(t, dashboard.Selector{Namespace: "dev", Module: "network"}, h.ctrl.Selector())
	assert.Equal(t, "dev_network", h.paneID())
	assert.True(t, h.doc.Query(dashboard.IDSelector("dev_network-list")).HasClass(dashboard.ClassActive))
	assert.True(t, h.doc.Query(dashboard.IDSelector("prod_network-list")).HasClass(dashboard.ClassHidden))
}

func TestControllerNamespaceHashClearsPane(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network", "dev_dns")
	h.client.setDetail("dev_network", fragment(api.StateReady, ""))

	h.ctrl.Init("dev_network")
	h.step()
	require.Equal(t, "dev_network", h.paneID())

	h.ctrl.HashChanged("dev")
	assert.Equal(t, "", h.paneID())
	assert.Equal(t, 0, h.loop.Len())
}

func TestControllerSelectorChangeCancelsPoll(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network", "dev_dns")
	h.client.setDetail("dev_network", fragment(api.StateRunning, ""))
	h.client.setDetail("dev_dns", fragment(api.StateReady, ""))

	h.ctrl.Init("dev_network")
	h.step()
	require.True(t, h.ctrl.Loader().Polling())

	h.ctrl.HashChanged("dev_dns")
	assert.False(t, h.ctrl.Loader().Polling())
	h.step()

	h.advance(pollInterval)
	assert.Equal(t, 0, h.loop.Len(), "the cancelled poll must not fire")
	assert.Equal(t, []string{"dev_network", "dev_dns"}, h.client.calls())
}

func TestControllerSameSelectorKeepsPoll(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network")
	h.client.setDetail("dev_network", fragment(api.StateRunning, ""))

	h.ctrl.Init("dev_network")
	h.step()

	h.ctrl.HashChanged("#dev_network")
	assert.True(t, h.ctrl.Loader().Polling())
	assert.Equal(t, 0, h.loop.Len())
	assert.Equal(t, []string{"dev_network"}, h.client.calls())
}

func TestControllerClick(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network")
	h.ctrl.SetLockID("alice")
	assert.Equal(t, "alice", h.ctrl.LockID())

	sel := dashboard.Selector{Namespace: "dev", Module: "network"}
	apply := h.ctrl.Control(sel, false)
	require.NotNil(t, apply)

	h.ctrl.Click(apply)
	assert.True(t, h.ctrl.Trigger().ControlsDisabled())

	// a second click while the first run is in flight does nothing
	h.ctrl.Click(h.ctrl.Control(sel, true))
	h.step()

	runs := h.client.runRequests()
	require.Len(t, runs, 1)
	assert.Equal(t, api.RunRequest{Namespace: "dev", Module: "network", PlanOnly: false, LockID: "alice"}, runs[0])
	assert.Equal(t, 0, h.loop.Len())
}

func TestControllerClickPlan(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network")

	h.ctrl.Click(h.ctrl.Control(dashboard.Selector{Namespace: "dev", Module: "network"}, true))
	h.step()

	runs := h.client.runRequests()
	require.Len(t, runs, 1)
	assert.True(t, runs[0].PlanOnly)
	assert.Equal(t, "", runs[0].LockID)
}

func TestControllerClickIgnoresBadControls(t *testing.T) {
	h := newHarness(t, dashboard.Options{}, "dev_network")

	h.ctrl.Click(nil)
	assert.Nil(t, h.ctrl.Control(dashboard.Selector{Namespace: "dev", Module: "missing"}, true))

	row := h.doc.Query(dashboard.IDSelector("dev_network-list"))
	h.ctrl.Click(row)

	assert.False(t, h.ctrl.Trigger().ControlsDisabled())
	assert.Equal(t, 0, h.loop.Len())
	assert.Empty(t, h.client.runRequests())
}
