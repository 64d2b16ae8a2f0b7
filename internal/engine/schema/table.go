package schema

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Section names a class in the tag-classification table.
type Section string

// Table sections.
const (
	// Boundary tags stop a split from propagating past them.
	Boundary Section = "boundary"
	// ContentEmpty tags are content even without children (void media).
	ContentEmpty Section = "content_empty"
	// NoMerge tags are never merged with an adjacent sibling.
	NoMerge Section = "no_merge"
	// Inline tags keep surrounding whitespace significant.
	Inline Section = "inline"
	// Significant lists attribute names that block nested collapse.
	// The entry "*" marks every attribute as significant.
	Significant Section = "significant_attributes"
	// ContentAttributes lists attribute names that make an empty element content.
	ContentAttributes Section = "content_attributes"
	// CollapseAllow lists tags eligible for nested collapse.
	CollapseAllow Section = "collapse_allow"
)

// Wildcard matches every name in a section.
const Wildcard = "*"

// ErrConfiguration indicates the table is missing a section an operation needs.
var ErrConfiguration = errors.New("schema: not configured")

// Table classifies tags and attributes for the structural engines.
// A section that was never set is unconfigured, which is different from a
// section configured with no entries.
// A Table is immutable after construction and safe for concurrent use.
type Table struct {
	sets        map[Section]map[string]struct{}
	placeholder *string
	script      string
}

// Option configures a Table during creation.
type Option func(*Table)

// WithTags configures section with the given names, replacing any previous
// entries. Calling it with no names configures an empty section.
func WithTags(section Section, names ...string) Option {
	return func(t *Table) {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" {
				set[n] = struct{}{}
			}
		}
		t.sets[section] = set
	}
}

// WithPlaceholder sets the tag inserted into an element pruned to nothing.
// An empty tag configures "no placeholder".
func WithPlaceholder(tag string) Option {
	return func(t *Table) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		t.placeholder = &tag
	}
}

// WithCollapseScript sets the Lua source of the collapse predicate.
func WithCollapseScript(src string) Option {
	return func(t *Table) {
		t.script = src
	}
}

// New creates a table. Sections not set by an option are unconfigured.
func New(opts ...Option) *Table {
	t := &Table{sets: make(map[Section]map[string]struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Default returns a table with every section configured for HTML content.
func Default() *Table {
	return New(
		WithTags(Boundary, "td", "th", "tr", "table", "li", "figure"),
		WithTags(ContentEmpty, "img", "br", "hr", "iframe", "video", "audio", "input", "embed"),
		WithTags(NoMerge, "td", "th", "tr", "li", "table"),
		WithTags(Inline,
			"strong", "span", "font", "b", "var", "i", "em", "u", "ins",
			"s", "strike", "del", "sub", "sup", "mark", "a", "label",
			"code", "summary"),
		WithTags(Significant, Wildcard),
		WithTags(ContentAttributes, "src", "data-embed"),
		WithTags(CollapseAllow, "b", "strong", "i", "em", "span"),
		WithPlaceholder("br"),
	)
}

// Configured reports whether section has been set.
func (t *Table) Configured(section Section) bool {
	if t == nil {
		return false
	}
	_, ok := t.sets[section]
	return ok
}

// Require returns ErrConfiguration if any of the sections is unconfigured.
// A nil table has no sections.
func (t *Table) Require(sections ...Section) error {
	if t == nil {
		return errors.Wrap(ErrConfiguration, "no classification table")
	}
	for _, s := range sections {
		if !t.Configured(s) {
			return errors.Wrapf(ErrConfiguration, "section %q", string(s))
		}
	}
	return nil
}

// Contains reports whether name is listed in section.
// Unconfigured sections contain nothing.
func (t *Table) Contains(section Section, name string) bool {
	if t == nil {
		return false
	}
	set := t.sets[section]
	if set == nil {
		return false
	}
	if _, ok := set[Wildcard]; ok {
		return true
	}
	_, ok := set[strings.ToLower(name)]
	return ok
}

// Names returns the sorted entries of section.
func (t *Table) Names(section Section) []string {
	if t == nil {
		return nil
	}
	set := t.sets[section]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsBoundary reports whether tag stops split propagation.
func (t *Table) IsBoundary(tag string) bool { return t.Contains(Boundary, tag) }

// IsContentEmpty reports whether tag is content without children.
func (t *Table) IsContentEmpty(tag string) bool { return t.Contains(ContentEmpty, tag) }

// IsNoMerge reports whether tag must never be merged.
func (t *Table) IsNoMerge(tag string) bool { return t.Contains(NoMerge, tag) }

// IsInline reports whether tag is inline.
func (t *Table) IsInline(tag string) bool { return t.Contains(Inline, tag) }

// IsSignificant reports whether attribute key blocks nested collapse.
func (t *Table) IsSignificant(key string) bool { return t.Contains(Significant, key) }

// IsContentAttribute reports whether attribute key makes an element content.
func (t *Table) IsContentAttribute(key string) bool { return t.Contains(ContentAttributes, key) }

// Placeholder returns the filler tag for elements pruned to nothing.
func (t *Table) Placeholder() (string, bool) {
	if t == nil || t.placeholder == nil || *t.placeholder == "" {
		return "", false
	}
	return *t.placeholder, true
}

// CollapseScript returns the Lua predicate source, or "" when none is set.
func (t *Table) CollapseScript() string {
	if t == nil {
		return ""
	}
	return t.script
}
