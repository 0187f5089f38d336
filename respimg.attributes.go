package respimg

import (
	"html/template"
	"sort"

	"github.com/itsatony/go-respimg/internal"
)

// Attributes maps HTML attribute names to values.
type Attributes map[string]string

// Get returns the value of key and whether it is set.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is set.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Keys returns all attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of a. A nil map clones to an empty one.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a new map holding a's entries overlaid with other's.
// other wins on key collisions.
func (a Attributes) Merge(other Attributes) Attributes {
	out := a.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Validate returns an error for the first attribute name, in sorted order,
// that cannot be written into a start tag.
func (a Attributes) Validate() error {
	for _, k := range a.Keys() {
		if !internal.ValidAttrKey(k) {
			return NewInvalidAttributeError(k)
		}
	}
	return nil
}

// String renders the attributes in sorted order, ready to be placed inside a
// start tag (each attribute preceded by a space). Values are escaped and
// names that fail Validate are dropped.
func (a Attributes) String() string {
	return internal.RenderAttrs(internal.OrderedAttrs(a))
}

// HTMLAttr returns the rendered attributes for use in html/template.
func (a Attributes) HTMLAttr() template.HTMLAttr {
	return template.HTMLAttr(a.String())
}
