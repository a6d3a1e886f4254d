package dashboard

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"applierctl/internal/api"
	"applierctl/pkg/logging"
)

const loaderSubsystem = "Loader"

// DetailClient fetches rendered module detail fragments.
type DetailClient interface {
	ModuleDetail(ctx context.Context, namespace, module string) (string, error)
}

// LoadResult describes a finished detail load that reached the pane.
type LoadResult struct {
	Selector Selector
	State    string
	Err      error
}

// DetailLoader keeps the detail pane in sync with one module.
type DetailLoader struct {
	ctx      context.Context
	view     View
	client   DetailClient
	loop     Loop
	sched    *Scheduler
	interval time.Duration
	timeout  time.Duration

	poll     Handle
	onLoaded func(LoadResult)
}

// NewDetailLoader creates a loader. Requests derive from ctx and are bounded
// by timeout when it is positive; interval is the re-poll delay while a
// module is Running.
func NewDetailLoader(ctx context.Context, view View, client DetailClient, loop Loop, sched *Scheduler, interval, timeout time.Duration) *DetailLoader {
	return &DetailLoader{
		ctx:      ctx,
		view:     view,
		client:   client,
		loop:     loop,
		sched:    sched,
		interval: interval,
		timeout:  timeout,
	}
}

// OnLoaded registers a callback run on the loop after every load that
// reached the pane.
func (l *DetailLoader) OnLoaded(fn func(LoadResult)) {
	l.onLoaded = fn
}

// Current returns the selector the detail pane is bound to.
func (l *DetailLoader) Current() (Selector, bool) {
	info := l.view.Query(PaneIdentitySelector)
	if info == nil {
		return Selector{}, false
	}
	sel := ParseSelector(info.ID())
	return sel, sel.HasModule()
}

// Loading reports whether the pane still shows the loading placeholder.
func (l *DetailLoader) Loading() bool {
	info := l.view.Query(PaneIdentitySelector)
	return info != nil && info.HasClass(ClassLoading)
}

// Polling reports whether a re-poll is scheduled.
func (l *DetailLoader) Polling() bool {
	return l.poll != nil
}

// Load fetches the detail of sel and binds the pane to it. When the pane is
// bound to another module a loading placeholder is shown straight away.
func (l *DetailLoader) Load(sel Selector) {
	if !sel.HasModule() {
		return
	}
	l.Cancel()

	pane := l.view.Query(DetailPaneSelector)
	if pane == nil {
		logging.Warn(loaderSubsystem, "No detail pane in view, cannot load %s", sel)
		return
	}
	if current, ok := l.Current(); !ok || current != sel {
		pane.SetHTML(paneMarkup(sel, ClassLoading, `<div class="spinner-border" role="status">Loading...</div>`))
	}

	logging.Debug(loaderSubsystem, "Loading module detail for %s", sel)

	ctx, cancel := l.requestContext()
	go func() {
		defer cancel()
		fragment, err := l.client.ModuleDetail(ctx, sel.Namespace, sel.Module)
		l.loop.Post(func() { l.finish(sel, fragment, err) })
	}()
}

// Reload loads sel again, but only if the pane is still bound to it. A timer
// for a module the operator has since left does nothing.
func (l *DetailLoader) Reload(sel Selector) {
	info := l.view.Query(PaneIdentitySelector)
	if info == nil {
		logging.Debug(loaderSubsystem, "Skipping reload of %s, no detail pane shown", sel)
		return
	}
	if info.ID() != sel.Key() {
		logging.Debug(loaderSubsystem, "Skipping reload of %s, pane shows %s", sel, info.ID())
		return
	}
	l.Load(sel)
}

// Cancel drops the pending re-poll, if any.
func (l *DetailLoader) Cancel() {
	if l.poll != nil {
		l.poll.Cancel()
		l.poll = nil
	}
}

// Clear empties the detail pane and stops polling.
func (l *DetailLoader) Clear() {
	l.Cancel()
	if pane := l.view.Query(DetailPaneSelector); pane != nil {
		pane.SetHTML("")
	}
}

func (l *DetailLoader) finish(sel Selector, fragment string, err error) {
	if current, ok := l.Current(); !ok || current != sel {
		logging.Debug(loaderSubsystem, "Dropping stale detail response for %s", sel)
		return
	}
	pane := l.view.Query(DetailPaneSelector)
	if pane == nil {
		return
	}

	if err != nil {
		logging.Error(loaderSubsystem, err, "Failed to load module %s", sel)
		pane.SetHTML(paneMarkup(sel, "", fmt.Sprintf(
			`<div class="alert alert-danger" role="alert">Error: %s</div>`,
			html.EscapeString(api.ErrorDetail(err)),
		)))
		l.notify(LoadResult{Selector: sel, Err: err})
		return
	}

	pane.SetHTML(paneMarkup(sel, "", fragment))

	state := ""
	if el := pane.Find(ModuleStateSelector); el != nil {
		state = strings.TrimSpace(el.Text())
	}
	l.mirrorState(sel, state)

	if state == api.StateRunning {
		l.poll = l.sched.After(l.interval, func() {
			l.poll = nil
			l.Reload(sel)
		})
		logging.Debug(loaderSubsystem, "%s is running, polling again in %s", sel, l.interval)
	}

	l.notify(LoadResult{Selector: sel, State: state})
}

// mirrorState copies the pane's state onto the module's list row so the two
// never disagree after a load.
func (l *DetailLoader) mirrorState(sel Selector, state string) {
	row := l.view.Query(IDSelector(sel.ListID()))
	if row == nil {
		return
	}
	el := row.Find(ModuleStateSelector)
	if el == nil {
		return
	}
	el.SetText(state)
	el.SetAttr(AttrState, state)
}

func (l *DetailLoader) notify(res LoadResult) {
	if l.onLoaded != nil {
		l.onLoaded(res)
	}
}

func (l *DetailLoader) requestContext() (context.Context, context.CancelFunc) {
	if l.timeout > 0 {
		return context.WithTimeout(l.ctx, l.timeout)
	}
	return context.WithCancel(l.ctx)
}

// paneMarkup wraps content in the element carrying the pane's identity.
func paneMarkup(sel Selector, class, content string) string {
	classes := "module-info"
	if class != "" {
		classes += " " + class
	}
	return fmt.Sprintf(`<div class="%s" id="%s">%s</div>`, classes, html.EscapeString(sel.Key()), content)
}
