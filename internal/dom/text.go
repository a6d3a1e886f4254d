package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Summary: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// RenderText flattens an HTML subtree into terminal text. Block elements start
// on a new line, <br> breaks the line and <pre> content keeps its whitespace.
// Script and style bodies are skipped.
func RenderText(n *html.Node) string {
	var r textRenderer
	r.walk(n, false)
	return strings.TrimSpace(r.String())
}

// RenderFragment parses an HTML fragment and renders it with RenderText.
func RenderFragment(markup string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return markup
	}
	for _, n := range nodes {
		ctx.AppendChild(n)
	}
	return RenderText(ctx)
}

type textRenderer struct {
	strings.Builder
	pendingSpace bool
}

func (r *textRenderer) newline() {
	s := r.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		r.pendingSpace = false
		return
	}
	r.WriteByte('\n')
	r.pendingSpace = false
}

func (r *textRenderer) words(text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if text != "" {
			r.pendingSpace = true
		}
		return
	}
	if isSpace(text[0]) {
		r.pendingSpace = true
	}
	for i, f := range fields {
		if i > 0 || r.pendingSpace {
			s := r.String()
			if s != "" && !strings.HasSuffix(s, "\n") {
				r.WriteByte(' ')
			}
		}
		r.WriteString(f)
		r.pendingSpace = false
	}
	r.pendingSpace = isSpace(text[len(text)-1])
}

func (r *textRenderer) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			r.WriteString(n.Data)
			return
		}
		r.words(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.Br:
			r.WriteByte('\n')
			r.pendingSpace = false
			return
		case atom.Pre:
			pre = true
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		r.newline()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, pre)
	}
	if block {
		r.newline()
	} else if n.Type == html.ElementNode && (n.DataAtom == atom.Td || n.DataAtom == atom.Th) {
		r.pendingSpace = true
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r' || b == '\f'
}
