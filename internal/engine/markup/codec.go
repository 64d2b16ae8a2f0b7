package markup

import (
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/snapshot"
)

// Codec stores snapshots as HTML markup. It is exact only for trees
// without empty or adjacent text nodes, which a parse cannot reproduce.
type Codec struct{}

var _ snapshot.Codec = Codec{}

// Name implements snapshot.Codec.
func (Codec) Name() string { return "html" }

// Encode implements snapshot.Codec.
func (Codec) Encode(root *dom.Node) ([]byte, error) {
	s, err := Inner(root)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Decode implements snapshot.Codec.
func (Codec) Decode(data []byte) ([]*dom.Node, error) {
	return Parse(string(data))
}
