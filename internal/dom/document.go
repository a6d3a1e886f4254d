// Package dom holds applier pages in memory and exposes them as a
// dashboard.View.
//
// A Document is not safe for concurrent use; like a browser DOM it belongs to
// the dashboard loop.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"applierctl/internal/dashboard"
)

// Document is an HTML page held in memory.
type Document struct {
	doc *goquery.Document
}

var _ dashboard.View = (*Document)(nil)

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML page held in a string.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// Replace swaps the whole page for a freshly fetched one. Elements obtained
// before the call no longer belong to the document.
func (d *Document) Replace(page string) error {
	next, err := ParseString(page)
	if err != nil {
		return err
	}
	d.doc = next.doc
	return nil
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) dashboard.Element {
	return wrap(d.doc.Find(selector).First())
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []dashboard.Element {
	return wrapAll(d.doc.Find(selector))
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// TextOf renders the first element matching selector as plain text laid out
// for a terminal. It returns "" when nothing matches.
func (d *Document) TextOf(selector string) string {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return RenderText(sel.Nodes[0])
}

// element adapts a single node selection to dashboard.Element.
type element struct {
	s *goquery.Selection
}

func wrap(s *goquery.Selection) dashboard.Element {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return &element{s: s}
}

func wrapAll(s *goquery.Selection) []dashboard.Element {
	out := make([]dashboard.Element, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		out = append(out, &element{s: item})
	})
	return out
}

func (e *element) ID() string {
	id, _ := e.s.Attr("id")
	return id
}

func (e *element) Attr(name string) (string, bool) { return e.s.Attr(name) }
func (e *element) SetAttr(name, value string)      { e.s.SetAttr(name, value) }
func (e *element) RemoveAttr(name string)          { e.s.RemoveAttr(name) }

func (e *element) HasClass(class string) bool { return e.s.HasClass(class) }
func (e *element) AddClass(class string)      { e.s.AddClass(class) }
func (e *element) RemoveClass(class string)   { e.s.RemoveClass(class) }

func (e *element) Text() string             { return e.s.Text() }
func (e *element) SetText(text string)      { e.s.SetText(text) }
func (e *element) SetHTML(markup string)    { e.s.SetHtml(markup) }
func (e *element) AppendHTML(markup string) { e.s.AppendHtml(markup) }
func (e *element) Remove()                  { e.s.Remove() }

func (e *element) Find(selector string) dashboard.Element {
	return wrap(e.s.Find(selector).First())
}

func (e *element) FindAll(selector string) []dashboard.Element {
	return wrapAll(e.s.Find(selector))
}

// PlainText renders the element as terminal text.
func (e *element) PlainText() string {
	return RenderText(e.s.Nodes[0])
}
