package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applierctl/internal/dashboard"
	"applierctl/internal/dom"
)

const filterPage = `<html><body>
<ul>
  <li class="namespace-item" data-filter="a">a</li>
  <li class="namespace-item" data-filter="ab">ab</li>
  <li class="namespace-item" data-filter="c">c</li>
</ul>
<div class="module-item" data-filter="a" id="a-list">a</div>
<div class="module-item" data-filter="a_b" id="a_b-list">a_b</div>
<div class="module-item" data-filter="ab_x" id="ab_x-list">ab_x</div>
<div class="module-item" data-filter="c" id="c-list">c</div>
</body></html>`

func newFilter(t *testing.T) (*dom.Document, *dashboard.ViewFilter) {
	t.Helper()
	doc, err := dom.ParseString(filterPage)
	require.NoError(t, err)
	return doc, dashboard.NewViewFilter(doc)
}

// visible returns the data-filter keys of the shown elements matching selector.
func visible(doc *dom.Document, selector string) []string {
	var keys []string
	for _, el := range doc.QueryAll(selector) {
		if !el.HasClass(dashboard.ClassHidden) {
			v, _ := el.Attr(dashboard.AttrFilter)
			keys = append(keys, v)
		}
	}
	return keys
}

func active(doc *dom.Document, selector string) []string {
	var keys []string
	for _, el := range doc.QueryAll(selector) {
		if el.HasClass(dashboard.ClassActive) {
			v, _ := el.Attr(dashboard.AttrFilter)
			keys = append(keys, v)
		}
	}
	return keys
}

func TestViewFilterApply(t *testing.T) {
	tests := []struct {
		name             string
		hash             string
		wantModules      []string
		wantNamespaces   []string
		wantActiveModule []string
	}{
		{
			name:        "empty hash shows everything",
			hash:        "",
			wantModules: []string{"a", "a_b", "ab_x", "c"},
		},
		{
			name:             "module selector shows only that module",
			hash:             "a_b",
			wantModules:      []string{"a_b"},
			wantNamespaces:   []string{"a"},
			wantActiveModule: []string{"a_b"},
		},
		{
			name:             "namespace selector shows its modules",
			hash:             "a",
			wantModules:      []string{"a", "a_b"},
			wantNamespaces:   []string{"a"},
			wantActiveModule: []string{"a"},
		},
		{
			name:           "leading hash is ignored",
			hash:           "#ab",
			wantModules:    []string{"ab_x"},
			wantNamespaces: []string{"ab"},
		},
		{
			name:             "namespace matches at segment boundary only",
			hash:             "ab_x",
			wantModules:      []string{"ab_x"},
			wantNamespaces:   []string{"ab"},
			wantActiveModule: []string{"ab_x"},
		},
		{
			name: "unknown hash hides everything",
			hash: "zzz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, filter := newFilter(t)
			filter.Apply(tt.hash)

			assert.Equal(t, tt.wantModules, visible(doc, dashboard.ModuleItemSelector))
			assert.Equal(t, tt.wantNamespaces, active(doc, dashboard.NamespaceItemSelector))
			assert.Equal(t, tt.wantActiveModule, active(doc, dashboard.ModuleItemSelector))
		})
	}
}

func TestViewFilterIdempotent(t *testing.T) {
	doc, filter := newFilter(t)

	filter.Apply("a_b")
	first, err := doc.HTML()
	require.NoError(t, err)

	filter.Apply("a_b")
	second, err := doc.HTML()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestViewFilterReset(t *testing.T) {
	doc, filter := newFilter(t)

	filter.Apply("a_b")
	filter.Apply("")

	assert.Equal(t, []string{"a", "a_b", "ab_x", "c"}, visible(doc, dashboard.ModuleItemSelector))
	assert.Empty(t, active(doc, dashboard.NamespaceItemSelector))
	assert.Empty(t, active(doc, dashboard.ModuleItemSelector))
}
