package dashboard

import "strings"

// Element is a single node of the view.
type Element interface {
	ID() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	HasClass(class string) bool
	AddClass(class string)
	RemoveClass(class string)

	// Text returns the text content of the element and its descendants.
	Text() string
	SetText(text string)
	// SetHTML replaces the children of the element with the given markup.
	SetHTML(markup string)
	AppendHTML(markup string)
	Remove()

	// Find returns the first descendant matching selector, or nil.
	Find(selector string) Element
	FindAll(selector string) []Element
}

// View is the document the dashboard components operate on.
type View interface {
	// Query returns the first element matching selector, or nil.
	Query(selector string) Element
	QueryAll(selector string) []Element
}

// Classes and attributes of the dashboard markup.
const (
	ClassActive  = "active"
	ClassHidden  = "d-none"
	ClassLoading = "loading"

	AttrFilter    = "data-filter"
	AttrNamespace = "data-namespace"
	AttrName      = "data-name"
	AttrPlanOnly  = "data-plan-only"
	AttrDisabled  = "disabled"
	AttrValue     = "value"
	AttrState     = "module-state"
)

// Selectors of the dashboard markup.
const (
	NamespaceItemSelector  = ".namespace-item"
	ModuleItemSelector     = ".module-item"
	ModuleStateSelector    = ".moduleState"
	DetailPaneSelector     = "#module-detail"
	PaneIdentitySelector   = "#module-detail > .module-info"
	RunControlSelector     = ".force-button"
	LockInputSelector      = "#lock-id"
	AlertContainerSelector = "#force-alert-container"
	AlertSelector          = ".alert"
)

// IDSelector builds a selector matching the element with the given id. The
// attribute form copes with ids that are not valid CSS identifiers.
func IDSelector(id string) string {
	return `[id="` + strings.ReplaceAll(id, `"`, `\"`) + `"]`
}

// attr returns the attribute value or "" when it is missing.
func attr(el Element, name string) string {
	v, _ := el.Attr(name)
	return v
}
