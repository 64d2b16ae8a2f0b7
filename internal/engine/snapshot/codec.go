package snapshot

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"

	"github.com/dshills/docstorm/internal/engine/dom"
)

// ErrCorrupt indicates snapshot data could not be decoded.
var ErrCorrupt = errors.New("snapshot data corrupt")

// Codec serializes the content of a subtree and reads it back.
// Encode covers the children of root only; root itself is owned by the
// caller and never replaced.
type Codec interface {
	Name() string
	Encode(root *dom.Node) ([]byte, error)
	Decode(data []byte) ([]*dom.Node, error)
}

// wireNode is the structural form. X is set for text nodes, including
// empty ones; T, A and C for elements.
type wireNode struct {
	T string      `json:"t,omitempty"`
	A [][2]string `json:"a,omitempty"`
	X *string     `json:"x,omitempty"`
	C []wireNode  `json:"c,omitempty"`
}

type structural struct{}

// Structural returns the exact codec: compact JSON compressed with snappy.
// Every tree round-trips through it unchanged, empty and adjacent text
// nodes included.
func Structural() Codec { return structural{} }

func (structural) Name() string { return "structural" }

func (structural) Encode(root *dom.Node) ([]byte, error) {
	wire := make([]wireNode, 0, root.ChildCount())
	for _, c := range root.Children() {
		wire = append(wire, toWire(c))
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, errors.Wrap(err, "encoding snapshot")
	}
	return snappy.Encode(nil, data), nil
}

func (structural) Decode(data []byte) ([]*dom.Node, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decompressing snapshot"), ErrCorrupt)
	}
	var wire []wireNode
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding snapshot"), ErrCorrupt)
	}
	out := make([]*dom.Node, 0, len(wire))
	for i := range wire {
		n, err := fromWire(&wire[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func toWire(n *dom.Node) wireNode {
	if n.IsText() {
		text := n.Text
		return wireNode{X: &text}
	}
	w := wireNode{T: n.Tag}
	for _, a := range n.Attrs {
		w.A = append(w.A, [2]string{a.Key, a.Val})
	}
	for _, c := range n.Children() {
		w.C = append(w.C, toWire(c))
	}
	return w
}

func fromWire(w *wireNode) (*dom.Node, error) {
	if w.X != nil {
		if w.T != "" || len(w.C) > 0 || len(w.A) > 0 {
			return nil, errors.Wrap(ErrCorrupt, "text node with element fields")
		}
		return dom.NewText(*w.X), nil
	}
	if w.T == "" {
		return nil, errors.Wrap(ErrCorrupt, "element without tag")
	}
	var attrs []dom.Attr
	for _, a := range w.A {
		attrs = append(attrs, dom.Attr{Key: a[0], Val: a[1]})
	}
	el := dom.NewElement(w.T, attrs)
	for i := range w.C {
		c, err := fromWire(&w.C[i])
		if err != nil {
			return nil, err
		}
		if err := el.AppendChild(c); err != nil {
			return nil, errors.NewAssertionErrorWithWrappedErrf(err, "rebuilding <%s>", w.T)
		}
	}
	return el, nil
}

// Digest returns a content fingerprint of encoded snapshot data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Restore replaces the children of root with the nodes decoded from data.
// On error root is left unchanged.
func Restore(root *dom.Node, codec Codec, data []byte) error {
	nodes, err := codec.Decode(data)
	if err != nil {
		return err
	}
	root.TakeChildren()
	for _, n := range nodes {
		if err := root.AppendChild(n); err != nil {
			return errors.NewAssertionErrorWithWrappedErrf(err, "restoring content")
		}
	}
	return nil
}
