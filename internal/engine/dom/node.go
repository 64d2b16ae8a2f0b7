package dom

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Errors returned by tree mutators.
var (
	// ErrTextChildren indicates a child mutation was attempted on a Text node.
	ErrTextChildren = errors.New("text nodes cannot have children")

	// ErrHierarchy indicates the mutation would make a node its own ancestor.
	ErrHierarchy = errors.New("node cannot be inserted inside itself")

	// ErrNotChild indicates the node is not a child of the receiver.
	ErrNotChild = errors.New("node is not a child")

	// ErrIndexOutOfRange indicates a child index outside [0, ChildCount].
	ErrIndexOutOfRange = errors.New("child index out of range")
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <p>, <span>, etc.
	KindText                // Character data
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a node in the editable document tree.
type Node struct {
	Kind  Kind   // Node type
	Tag   string // Lowercase tag name (elements only)
	Attrs []Attr // Ordered attributes (elements only)
	Text  string // Character data (text nodes only)

	parent   *Node
	children []*Node
}

// NewElement creates an element with the given attributes and children.
// Children that already have a parent are moved.
func NewElement(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{
		Kind:  KindElement,
		Tag:   strings.ToLower(tag),
		Attrs: attrs,
	}
	for _, c := range children {
		// Errors are impossible here: n is a fresh element.
		_ = n.AppendChild(c)
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// IsElement returns true if n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// IsText returns true if n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == KindText
}

// Parent returns the parent of n, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the children of n.
// The returned slice is owned by n and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child at index i, or nil if i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.Child(0)
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	return n.Child(len(n.children) - 1)
}

// Index returns the position of n in its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Len returns the largest valid offset inside n: the rune count for text
// nodes and the child count for elements.
func (n *Node) Len() int {
	if n.Kind == KindText {
		return utf8.RuneCountInString(n.Text)
	}
	return len(n.children)
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == KindText {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// Contains returns true if other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) error {
	return n.InsertAt(len(n.children), c)
}

// InsertAt inserts c so that it becomes child i of n.
// If c already has a parent it is detached first; when that parent is n,
// i refers to the position before detaching.
func (n *Node) InsertAt(i int, c *Node) error {
	if n.Kind == KindText {
		return ErrTextChildren
	}
	if c == nil {
		return errors.AssertionFailedf("nil child")
	}
	if c.Contains(n) {
		return ErrHierarchy
	}
	if i < 0 || i > len(n.children) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, %d children", i, len(n.children))
	}
	if c.parent == n {
		if ci := c.Index(); ci < i {
			i--
		}
	}
	c.Remove()

	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	c.parent = n
	return nil
}

// InsertBefore inserts c before ref. A nil ref appends.
func (n *Node) InsertBefore(c, ref *Node) error {
	if ref == nil {
		return n.AppendChild(c)
	}
	if ref.parent != n {
		return ErrNotChild
	}
	return n.InsertAt(ref.Index(), c)
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) error {
	if c == nil || c.parent != n {
		return ErrNotChild
	}
	c.Remove()
	return nil
}

// Remove detaches n from its parent. No-op for detached nodes.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	i := n.Index()
	copy(p.children[i:], p.children[i+1:])
	p.children[len(p.children)-1] = nil
	p.children = p.children[:len(p.children)-1]
	n.parent = nil
}

// ReplaceWith puts nodes in the place of n and detaches n.
func (n *Node) ReplaceWith(nodes ...*Node) error {
	p := n.parent
	if p == nil {
		return errors.AssertionFailedf("cannot replace a detached node")
	}
	for _, r := range nodes {
		if r.Contains(p) {
			return ErrHierarchy
		}
	}
	i := n.Index()
	n.Remove()
	for _, r := range nodes {
		if r.parent == p && r.Index() < i {
			i--
		}
		if err := p.InsertAt(i, r); err != nil {
			return err
		}
		i++
	}
	return nil
}

// TakeChildren detaches and returns all children of n.
func (n *Node) TakeChildren() []*Node {
	taken := n.children
	n.children = nil
	for _, c := range taken {
		c.parent = nil
	}
	return taken
}

// ShallowClone returns a detached copy of n without children.
func (n *Node) ShallowClone() *Node {
	clone := &Node{
		Kind: n.Kind,
		Tag:  n.Tag,
		Text: n.Text,
	}
	if n.Attrs != nil {
		clone.Attrs = make([]Attr, len(n.Attrs))
		copy(clone.Attrs, n.Attrs)
	}
	return clone
}

// DeepClone returns a detached copy of n and all its descendants.
func (n *Node) DeepClone() *Node {
	clone := n.ShallowClone()
	for _, c := range n.children {
		cc := c.DeepClone()
		cc.parent = clone
		clone.children = append(clone.children, cc)
	}
	return clone
}

// Equal reports whether n and other have the same tag, attributes and text
// content all the way down. Attribute order is ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	if n.Kind == KindText {
		return n.Text == other.Text
	}
	if n.Tag != other.Tag || !SameAttributes(n, other) {
		return false
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for n and its descendants in document order.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for i := 0; i < len(n.children); i++ {
		n.children[i].Walk(fn)
	}
}
