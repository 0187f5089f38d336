package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// ErrInvalidAttrKey is returned for attribute names that cannot be written
// into a start tag as-is.
var ErrInvalidAttrKey = errors.New("invalid attribute name")

// ValidAttrKey reports whether key can be written raw as an attribute name.
// Empty names are rejected, as are names holding whitespace, control
// characters or any of " ' < > / =.
func ValidAttrKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`"'<>/=`, r) {
			return false
		}
	}
	return true
}

// OrderedAttrs turns an attribute map into a slice with the leading keys
// first (in the given order, when present) followed by the remaining keys
// sorted alphabetically. Keys with empty names are skipped.
func OrderedAttrs(m map[string]string, leading ...string) []Attr {
	attrs := make([]Attr, 0, len(m))
	seen := make(map[string]bool, len(leading))

	for _, key := range leading {
		if val, ok := m[key]; ok && !seen[key] {
			attrs = append(attrs, Attr{Key: key, Val: val})
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(m))
	for key := range m {
		if key == "" || seen[key] {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)

	for _, key := range rest {
		attrs = append(attrs, Attr{Key: key, Val: m[key]})
	}
	return attrs
}

// RenderVoidElement renders a childless element such as <img/> with
// attribute values escaped. Any attribute name rejected by ValidAttrKey fails
// the render.
func RenderVoidElement(tag string, attrs []Attr) (string, error) {
	for _, a := range attrs {
		if !ValidAttrKey(a.Key) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAttrKey, a.Key)
		}
	}

	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     make([]html.Attribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		node.Attr = append(node.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}

	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderAttrs renders attributes as they appear inside a start tag,
// each preceded by a single space: ` a="1" b="2"`. Names rejected by
// ValidAttrKey are dropped.
func RenderAttrs(attrs []Attr) string {
	var sb strings.Builder
	for _, a := range attrs {
		if !ValidAttrKey(a.Key) {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Val))
		sb.WriteByte('"')
	}
	return sb.String()
}
