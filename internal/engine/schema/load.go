package schema

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// ParseError represents an error while parsing a table file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// file mirrors the TOML layout. Pointers distinguish an absent key
// (unconfigured) from an empty list.
type file struct {
	Tags struct {
		Boundary     *[]string `toml:"boundary"`
		ContentEmpty *[]string `toml:"content_empty"`
		NoMerge      *[]string `toml:"no_merge"`
		Inline       *[]string `toml:"inline"`
		Placeholder  *string   `toml:"placeholder"`
	} `toml:"tags"`
	Attributes struct {
		Significant *[]string `toml:"significant"`
		Content     *[]string `toml:"content"`
	} `toml:"attributes"`
	Collapse struct {
		Allow  *[]string `toml:"allow"`
		Script *string   `toml:"script"`
	} `toml:"collapse"`
}

// Load reads a table from a TOML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema file %s", path)
	}
	return parse(path, data)
}

// Parse reads a table from TOML data.
func Parse(data []byte) (*Table, error) {
	return parse("<data>", data)
}

func parse(source string, data []byte) (*Table, error) {
	var f file
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown key: " + serr.String()
		}
		return nil, perr
	}

	var opts []Option
	add := func(section Section, names *[]string) {
		if names != nil {
			opts = append(opts, WithTags(section, *names...))
		}
	}
	add(Boundary, f.Tags.Boundary)
	add(ContentEmpty, f.Tags.ContentEmpty)
	add(NoMerge, f.Tags.NoMerge)
	add(Inline, f.Tags.Inline)
	add(Significant, f.Attributes.Significant)
	add(ContentAttributes, f.Attributes.Content)
	add(CollapseAllow, f.Collapse.Allow)
	if f.Tags.Placeholder != nil {
		opts = append(opts, WithPlaceholder(*f.Tags.Placeholder))
	}
	if f.Collapse.Script != nil {
		opts = append(opts, WithCollapseScript(*f.Collapse.Script))
	}
	return New(opts...), nil
}
