// Package address converts live tree positions into portable paths and back.
//
// A Path is a chain of child indices from the editing root. A Position adds
// an Offset: a rune offset when the addressed node is a Text node, or a
// child-boundary index when it is an Element (offset k sits between child
// k-1 and child k). Positions outlive the mutations that invalidate live
// node references, which is why selections and history entries store them
// instead of nodes.
//
// A Path only stays meaningful while the tree shape between the root and
// the target is unchanged. Resolve reports ErrAddress when the shape has
// diverged; callers must then recompute the address rather than reuse it.
package address

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrAddress indicates a path or offset no longer resolves against the tree.
var ErrAddress = errors.New("address not resolvable")

// Path identifies a node by descending child indices from the root.
// The empty path is the root itself.
type Path []int

// Clone returns a copy of p that shares no storage with it.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Equal returns true if both paths have the same indices.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if prefix is an ancestor-or-self path of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Parent returns the path of the parent node. The root's parent is nil.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Child returns the path of child i of p.
func (p Path) Child(i int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, i)
}

// String formats the path as slash separated indices, e.g. "0/2/1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "/")
}

// ParsePath parses the format produced by Path.String.
// The empty string is the root path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return nil, errors.Newf("invalid path component %q in %q", part, s)
		}
		p[i] = v
	}
	return p, nil
}

// Position is a Path plus an offset inside the addressed node.
type Position struct {
	Path   Path
	Offset int
}

// Clone returns a deep copy of the position.
func (pos Position) Clone() Position {
	return Position{Path: pos.Path.Clone(), Offset: pos.Offset}
}

// Equal returns true if both positions have the same path and offset.
func (pos Position) Equal(other Position) bool {
	return pos.Offset == other.Offset && pos.Path.Equal(other.Path)
}

// String formats the position as "path:offset", e.g. "0/1:3".
func (pos Position) String() string {
	return pos.Path.String() + ":" + strconv.Itoa(pos.Offset)
}

// Rebase expresses pos relative to the node at base. It returns false when
// pos does not lie inside that node.
func Rebase(pos Position, base Path) (Position, bool) {
	if !pos.Path.HasPrefix(base) {
		return Position{}, false
	}
	return Position{Path: pos.Path[len(base):].Clone(), Offset: pos.Offset}, true
}

// Join is the inverse of Rebase.
func Join(base Path, rel Position) Position {
	p := make(Path, 0, len(base)+len(rel.Path))
	p = append(p, base...)
	p = append(p, rel.Path...)
	return Position{Path: p, Offset: rel.Offset}
}
