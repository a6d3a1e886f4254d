package dashboard

import (
	"fmt"
	"strings"
	"time"

	"applierctl/pkg/logging"
)

const alertsSubsystem = "Alerts"

// Alert is a banner currently shown in the alert container.
type Alert struct {
	ID      string
	Success bool
	Text    string
}

// AlertPresenter renders dismissible banners into the alert container.
type AlertPresenter struct {
	view     View
	sched    *Scheduler
	delay    time.Duration
	sanitize Sanitizer
	seq      int
}

// NewAlertPresenter creates a presenter. Banners auto-dismiss after delay;
// a zero delay keeps them until closed.
func NewAlertPresenter(view View, sched *Scheduler, delay time.Duration, sanitize Sanitizer) *AlertPresenter {
	if sanitize == nil {
		sanitize = NewSanitizer(false)
	}
	return &AlertPresenter{
		view:     view,
		sched:    sched,
		delay:    delay,
		sanitize: sanitize,
	}
}

// Show appends a banner and returns its element id. message is markup.
func (a *AlertPresenter) Show(success bool, message string) string {
	container := a.view.Query(AlertContainerSelector)
	if container == nil {
		logging.Warn(alertsSubsystem, "No alert container in view, dropping alert: %s", message)
		return ""
	}

	a.seq++
	id := fmt.Sprintf("force-alert-%d", a.seq)
	kind := "warning"
	if success {
		kind = "success"
	}

	container.AppendHTML(fmt.Sprintf(
		`<div id="%s" class="alert alert-%s alert-dismissible" role="alert"><div>%s</div></div>`,
		id, kind, a.sanitize(message),
	))

	if a.delay > 0 && a.sched != nil {
		a.sched.After(a.delay, func() { a.Dismiss(id) })
	}
	return id
}

// Dismiss removes a single banner if it is still shown.
func (a *AlertPresenter) Dismiss(id string) {
	if el := a.view.Query(IDSelector(id)); el != nil {
		el.Remove()
	}
}

// Close removes every banner.
func (a *AlertPresenter) Close() {
	container := a.view.Query(AlertContainerSelector)
	if container == nil {
		return
	}
	for _, el := range container.FindAll(AlertSelector) {
		el.Remove()
	}
}

// Alerts lists the banners currently shown, oldest first.
func (a *AlertPresenter) Alerts() []Alert {
	container := a.view.Query(AlertContainerSelector)
	if container == nil {
		return nil
	}

	var alerts []Alert
	for _, el := range container.FindAll(AlertSelector) {
		alerts = append(alerts, Alert{
			ID:      el.ID(),
			Success: el.HasClass("alert-success"),
			Text:    strings.TrimSpace(el.Text()),
		})
	}
	return alerts
}
