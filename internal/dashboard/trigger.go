package dashboard

import (
	"context"
	"time"

	"applierctl/internal/api"
	"applierctl/pkg/logging"
)

const triggerSubsystem = "RunTrigger"

// FailureHint is appended to every failed force run alert.
const FailureHint = "See container logs for more info."

// RunClient submits force runs.
type RunClient interface {
	ForceRun(ctx context.Context, req api.RunRequest) (string, error)
}

// RunResult describes a finished force run submission.
type RunResult struct {
	Request api.RunRequest
	Message string
	Err     error
}

// RunTrigger submits force runs and reports their outcome.
type RunTrigger struct {
	ctx     context.Context
	view    View
	client  RunClient
	loop    Loop
	sched   *Scheduler
	alerts  *AlertPresenter
	loader  *DetailLoader
	timeout time.Duration

	refreshDelay      time.Duration
	reenableOnFailure bool

	refresh  Handle
	onResult func(RunResult)
}

// RunTriggerOptions tunes a RunTrigger.
type RunTriggerOptions struct {
	RefreshDelay time.Duration
	Timeout      time.Duration
	// ReenableOnFailure re-arms the controls after a failed submission.
	ReenableOnFailure bool
}

// NewRunTrigger creates a trigger whose successful runs refresh the detail
// pane through loader.
func NewRunTrigger(ctx context.Context, view View, client RunClient, loop Loop, sched *Scheduler, alerts *AlertPresenter, loader *DetailLoader, opts RunTriggerOptions) *RunTrigger {
	return &RunTrigger{
		ctx:               ctx,
		view:              view,
		client:            client,
		loop:              loop,
		sched:             sched,
		alerts:            alerts,
		loader:            loader,
		timeout:           opts.Timeout,
		refreshDelay:      opts.RefreshDelay,
		reenableOnFailure: opts.ReenableOnFailure,
	}
}

// OnResult registers a callback run on the loop after every submission.
func (t *RunTrigger) OnResult(fn func(RunResult)) {
	t.onResult = fn
}

// Run disables the run controls, closes open alerts and submits the run.
// The controls are disabled before Run returns, so a second click cannot
// submit again while the first request is in flight.
func (t *RunTrigger) Run(namespace, module string, planOnly bool, lockID string) {
	req := api.RunRequest{
		Namespace: namespace,
		Module:    module,
		PlanOnly:  planOnly,
		LockID:    lockID,
	}

	t.SetControlsDisabled(true)
	t.alerts.Close()

	logging.Info(triggerSubsystem, "Requesting force run of %s (planOnly=%t)", req.NamespacedName(), planOnly)

	ctx, cancel := t.requestContext()
	go func() {
		defer cancel()
		msg, err := t.client.ForceRun(ctx, req)
		t.loop.Post(func() { t.finish(req, msg, err) })
	}()
}

func (t *RunTrigger) finish(req api.RunRequest, msg string, err error) {
	if err != nil {
		logging.Error(triggerSubsystem, err, "Force run of %s failed", req.NamespacedName())
		t.alerts.Show(false, "Error: "+api.ErrorDetail(err)+"<br/>"+FailureHint)
		// Controls stay disabled unless configured otherwise; the operator
		// has to notice the failure before retrying.
		if t.reenableOnFailure {
			t.SetControlsDisabled(false)
		}
		t.notify(RunResult{Request: req, Err: err})
		return
	}

	logging.Info(triggerSubsystem, "Force run of %s accepted: %s", req.NamespacedName(), msg)
	t.alerts.Show(true, msg)
	t.SetControlsDisabled(false)

	if t.refresh != nil {
		t.refresh.Cancel()
	}
	sel := Selector{Namespace: req.Namespace, Module: req.Module}
	t.refresh = t.sched.After(t.refreshDelay, func() {
		t.refresh = nil
		t.loader.Reload(sel)
	})

	t.notify(RunResult{Request: req, Message: msg})
}

// SetControlsDisabled toggles the disabled attribute of every run control.
func (t *RunTrigger) SetControlsDisabled(disabled bool) {
	for _, btn := range t.view.QueryAll(RunControlSelector) {
		if disabled {
			btn.SetAttr(AttrDisabled, AttrDisabled)
		} else {
			btn.RemoveAttr(AttrDisabled)
		}
	}
}

// ControlsDisabled reports whether any run control is disabled.
func (t *RunTrigger) ControlsDisabled() bool {
	for _, btn := range t.view.QueryAll(RunControlSelector) {
		if _, ok := btn.Attr(AttrDisabled); ok {
			return true
		}
	}
	return false
}

func (t *RunTrigger) notify(res RunResult) {
	if t.onResult != nil {
		t.onResult(res)
	}
}

func (t *RunTrigger) requestContext() (context.Context, context.CancelFunc) {
	if t.timeout > 0 {
		return context.WithTimeout(t.ctx, t.timeout)
	}
	return context.WithCancel(t.ctx)
}
