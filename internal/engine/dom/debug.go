package dom

import (
	"fmt"
	"strings"
)

// Debug returns an indented dump of the structure rooted at n.
// Elements print their tag and attributes, text nodes print quoted text,
// so empty text nodes stay visible:
//
//	div
//	  p class="x"
//	    "AB"
//	    ""
func Debug(n *Node) string {
	var sb strings.Builder
	debug(&sb, n, 0)
	return sb.String()
}

func debug(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Kind == KindText {
		fmt.Fprintf(sb, "%q\n", n.Text)
		return
	}
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(sb, " %s=%q", a.Key, a.Val)
	}
	sb.WriteByte('\n')
	for _, c := range n.children {
		debug(sb, c, depth+1)
	}
}
