package dashboard

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"applierctl/pkg/logging"
)

const controllerSubsystem = "Dashboard"

// Client is everything the dashboard needs from the applier.
type Client interface {
	DetailClient
	RunClient
}

// Options configures a Controller.
type Options struct {
	PollInterval      time.Duration
	RefreshDelay      time.Duration
	AlertDismissDelay time.Duration
	RequestTimeout    time.Duration
	RawMarkup         bool
	ReenableOnFailure bool

	// Clock drives every timer; nil means the real clock.
	Clock clock.WithDelayedExecution
}

// Controller wires hash changes and control clicks to the components.
type Controller struct {
	view    View
	filter  *ViewFilter
	alerts  *AlertPresenter
	loader  *DetailLoader
	trigger *RunTrigger

	hash     string
	selector Selector
}

// NewController builds the components over view. All of its methods must be
// called from tasks running on loop.
func NewController(ctx context.Context, view View, client Client, loop Loop, opts Options) *Controller {
	sched := NewScheduler(opts.Clock, loop)
	alerts := NewAlertPresenter(view, sched, opts.AlertDismissDelay, NewSanitizer(opts.RawMarkup))
	loader := NewDetailLoader(ctx, view, client, loop, sched, opts.PollInterval, opts.RequestTimeout)
	trigger := NewRunTrigger(ctx, view, client, loop, sched, alerts, loader, RunTriggerOptions{
		RefreshDelay:      opts.RefreshDelay,
		Timeout:           opts.RequestTimeout,
		ReenableOnFailure: opts.ReenableOnFailure,
	})

	return &Controller{
		view:    view,
		filter:  NewViewFilter(view),
		alerts:  alerts,
		loader:  loader,
		trigger: trigger,
	}
}

// Init applies the initial hash. It runs once after the view is populated.
func (c *Controller) Init(hash string) {
	logging.Debug(controllerSubsystem, "Initialising dashboard with hash %q", hash)
	c.apply(hash, true)
}

// HashChanged re-filters the view and, for a module selector, loads its
// detail. Leaving a module cancels its pending re-poll.
func (c *Controller) HashChanged(hash string) {
	c.apply(hash, false)
}

func (c *Controller) apply(hash string, force bool) {
	hash = NormalizeHash(hash)
	sel := ParseSelector(hash)
	changed := force || sel != c.selector

	c.hash = hash
	c.selector = sel
	c.filter.Apply(hash)

	if !changed {
		return
	}
	c.loader.Cancel()
	if sel.HasModule() {
		c.loader.Load(sel)
		return
	}
	c.loader.Clear()
}

// Click handles a click on a run control, reading the module from the
// control's data attributes and the lock id from the lock input.
func (c *Controller) Click(control Element) {
	if control == nil {
		return
	}
	if _, disabled := control.Attr(AttrDisabled); disabled {
		logging.Debug(controllerSubsystem, "Ignoring click on disabled run control")
		return
	}

	namespace := attr(control, AttrNamespace)
	module := attr(control, AttrName)
	if namespace == "" || module == "" {
		logging.Warn(controllerSubsystem, "Run control without namespace or module, ignoring click")
		return
	}
	planOnly := attr(control, AttrPlanOnly) == "true"

	c.trigger.Run(namespace, module, planOnly, c.LockID())
}

// Control returns the run control of a module, or nil.
func (c *Controller) Control(sel Selector, planOnly bool) Element {
	for _, btn := range c.view.QueryAll(RunControlSelector) {
		if attr(btn, AttrNamespace) != sel.Namespace || attr(btn, AttrName) != sel.Module {
			continue
		}
		if (attr(btn, AttrPlanOnly) == "true") == planOnly {
			return btn
		}
	}
	return nil
}

// LockID returns the value of the lock input.
func (c *Controller) LockID() string {
	if input := c.view.Query(LockInputSelector); input != nil {
		return attr(input, AttrValue)
	}
	return ""
}

// SetLockID sets the value of the lock input.
func (c *Controller) SetLockID(id string) {
	if input := c.view.Query(LockInputSelector); input != nil {
		input.SetAttr(AttrValue, id)
	}
}

// Hash returns the hash last applied.
func (c *Controller) Hash() string { return c.hash }

// Selector returns the selector last applied.
func (c *Controller) Selector() Selector { return c.selector }

func (c *Controller) Alerts() *AlertPresenter { return c.alerts }
func (c *Controller) Loader() *DetailLoader   { return c.loader }
func (c *Controller) Trigger() *RunTrigger    { return c.trigger }
func (c *Controller) Filter() *ViewFilter     { return c.filter }
