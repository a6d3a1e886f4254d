package dashboard

import (
	"strings"

	"k8s.io/apimachinery/pkg/types"
)

// Delimiter separates namespace and module in a hash.
const Delimiter = "_"

// Selector is the parsed form of a dashboard hash.
type Selector struct {
	Namespace string
	Module    string
}

// NormalizeHash strips surrounding whitespace and a leading '#'.
func NormalizeHash(hash string) string {
	return strings.TrimPrefix(strings.TrimSpace(hash), "#")
}

// ParseSelector parses "namespace" or "namespace_module". The module is only
// set when the hash splits into exactly two non-empty parts.
func ParseSelector(hash string) Selector {
	hash = NormalizeHash(hash)
	if hash == "" {
		return Selector{}
	}

	parts := strings.Split(hash, Delimiter)
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return Selector{Namespace: parts[0], Module: parts[1]}
	}
	return Selector{Namespace: parts[0]}
}

// IsEmpty reports whether the selector selects nothing.
func (s Selector) IsEmpty() bool {
	return s.Namespace == "" && s.Module == ""
}

// HasModule reports whether the selector names a single module.
func (s Selector) HasModule() bool {
	return s.Namespace != "" && s.Module != ""
}

// Key is the hash form of the selector and the identity of its detail pane.
func (s Selector) Key() string {
	if !s.HasModule() {
		return s.Namespace
	}
	return s.Namespace + Delimiter + s.Module
}

// ListID is the element id of the module's row in the module list.
func (s Selector) ListID() string {
	return s.Key() + "-list"
}

// NamespacedName returns the module identity as the applier names it.
func (s Selector) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: s.Namespace, Name: s.Module}
}

func (s Selector) String() string {
	if s.HasModule() {
		return s.NamespacedName().String()
	}
	return s.Namespace
}
