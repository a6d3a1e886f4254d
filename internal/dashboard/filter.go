package dashboard

import "strings"

// ViewFilter shows the namespace and module entries matching a hash.
type ViewFilter struct {
	view View
}

// NewViewFilter creates a filter over view.
func NewViewFilter(view View) *ViewFilter {
	return &ViewFilter{view: view}
}

// Apply marks the namespace entries containing hash as active, hides every
// module entry outside of it and activates the row of the exact selector.
// Keys match at "_" segment boundaries only: namespace "dev" is active for
// "dev" and "dev_network" but not for "devops".
// An empty hash shows every module and activates nothing. Calling Apply
// twice with the same hash leaves the view unchanged.
func (f *ViewFilter) Apply(hash string) {
	hash = NormalizeHash(hash)

	for _, ns := range f.view.QueryAll(NamespaceItemSelector) {
		ns.RemoveClass(ClassActive)
		if key := attr(ns, AttrFilter); hash != "" && segmentPrefix(key, hash) {
			ns.AddClass(ClassActive)
		}
	}

	for _, mod := range f.view.QueryAll(ModuleItemSelector) {
		mod.AddClass(ClassHidden)
		mod.RemoveClass(ClassActive)
		if key := attr(mod, AttrFilter); hash == "" || segmentPrefix(hash, key) {
			mod.RemoveClass(ClassHidden)
		}
	}

	if hash == "" {
		return
	}
	if row := f.view.Query(IDSelector(hash + "-list")); row != nil {
		row.AddClass(ClassActive)
	}
}

// segmentPrefix reports whether prefix equals s or is a leading run of its
// Delimiter separated segments, so namespace "ab" never matches hash "abc".
func segmentPrefix(prefix, s string) bool {
	if prefix == "" {
		return false
	}
	return s == prefix || strings.HasPrefix(s, prefix+Delimiter)
}
