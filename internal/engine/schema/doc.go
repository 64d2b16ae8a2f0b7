// Package schema holds the tag-classification table consumed by the split,
// normalize and markup engines.
//
// The engines know nothing about HTML; every decision that depends on what
// a tag means (may a split cross it, may it merge, is it content when
// empty) is a lookup in a Table. Tables are built with options or loaded
// from TOML:
//
//	[tags]
//	boundary      = ["td", "th", "li"]
//	content_empty = ["img", "br"]
//	no_merge      = ["td", "li"]
//	inline        = ["b", "i", "span"]
//	placeholder   = "br"
//
//	[attributes]
//	significant = ["*"]
//	content     = ["src"]
//
//	[collapse]
//	allow  = ["b", "i"]
//	script = ""
//
// A key that is absent leaves its section unconfigured, and any operation
// that needs it fails with ErrConfiguration.
package schema
