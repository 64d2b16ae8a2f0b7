package markup

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/dshills/docstorm/internal/engine/schema"
)

// htmlSpace is the set of HTML whitespace characters.
const htmlSpace = " \t\n\f\r"

// StripWhitespace removes whitespace that carries no meaning from
// serialized markup. The input is trimmed, and a whitespace-only text run
// is dropped when it follows a start or end tag that is not inline and is
// followed by another tag. Everything else, including the bytes of every
// kept token, is copied through unchanged.
func StripWhitespace(src string, table *schema.Table) (string, error) {
	if err := table.Require(schema.Inline); err != nil {
		return "", err
	}

	z := html.NewTokenizer(strings.NewReader(strings.TrimSpace(src)))
	var out strings.Builder
	var pending []byte
	hasPending := false
	afterBlock := false

	flush := func() {
		if hasPending {
			out.Write(pending)
			hasPending = false
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", errors.Wrap(err, "tokenizing markup")
			}
			flush()
			return out.String(), nil
		}
		raw := z.Raw()

		switch tt {
		case html.TextToken:
			if afterBlock && len(bytes.Trim(raw, htmlSpace)) == 0 {
				pending = append(pending[:0], raw...)
				hasPending = true
				afterBlock = false
				continue
			}
			flush()
			out.Write(raw)
			afterBlock = false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			// Whitespace between a block tag and this tag is dropped.
			hasPending = false
			out.Write(raw)
			name, _ := z.TagName()
			afterBlock = !table.IsInline(string(name))
		default:
			flush()
			out.Write(raw)
			afterBlock = false
		}
	}
}
