package dom

import (
	"sort"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// GetAttr returns the value of the attribute with the given key.
func (n *Node) GetAttr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value in place.
func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(key string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// HasAttrs returns true if n carries at least one attribute.
func (n *Node) HasAttrs() bool {
	return len(n.Attrs) > 0
}

// SameAttributes reports whether a and b carry the same attribute set.
// Two text nodes always match; a text node never matches an element.
// The class attribute is compared as a set of tokens and the style
// attribute as a set of declarations, so "a b" matches "b a" and
// "color:red; font-weight:bold" matches "font-weight: bold;color: red".
func SameAttributes(a, b *Node) bool {
	if a.Kind == KindText && b.Kind == KindText {
		return true
	}
	if a.Kind == KindText || b.Kind == KindText {
		return false
	}
	am, bm := attrSet(a.Attrs), attrSet(b.Attrs)
	if len(am) != len(bm) {
		return false
	}
	for k, v := range am {
		if bv, ok := bm[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func attrSet(attrs []Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		switch key {
		case "class":
			m[key] = canonicalClass(a.Val)
		case "style":
			m[key] = canonicalStyle(a.Val)
		default:
			m[key] = a.Val
		}
	}
	return m
}

func canonicalClass(v string) string {
	fields := strings.Fields(v)
	sort.Strings(fields)
	out := fields[:0]
	for i, f := range fields {
		if i > 0 && f == fields[i-1] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func canonicalStyle(v string) string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls[prop] = strings.Join(strings.Fields(val), " ")
	}
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(decls[k])
		sb.WriteByte(';')
	}
	return sb.String()
}
