package dashboard

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans message markup before it is inserted into the view.
type Sanitizer func(markup string) string

// NewSanitizer returns the sanitizer used for alert messages. Messages embed
// server supplied text, so by default they go through bluemonday's UGC
// policy, which keeps line breaks and basic formatting and drops scripts and
// event handlers. raw disables sanitising entirely.
func NewSanitizer(raw bool) Sanitizer {
	if raw {
		return func(markup string) string { return markup }
	}
	policy := bluemonday.UGCPolicy()
	return policy.Sanitize
}
