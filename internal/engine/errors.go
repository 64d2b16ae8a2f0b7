package engine

import (
	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
	"github.com/dshills/docstorm/internal/engine/snapshot"
	"github.com/dshills/docstorm/internal/engine/split"
	"github.com/dshills/docstorm/internal/plugin/lua"
)

// Errors returned by editor operations. Match them with errors.Is.
var (
	// ErrAddress indicates a path no longer resolves; recompute it.
	ErrAddress = address.ErrAddress

	// ErrSplit indicates the split position is not inside the document.
	ErrSplit = split.ErrSplit

	// ErrConfiguration indicates the schema lacks a section the
	// operation needs.
	ErrConfiguration = schema.ErrConfiguration

	// ErrTextChildren indicates an attempt to give a text node children.
	ErrTextChildren = dom.ErrTextChildren

	// ErrCorrupt indicates a history snapshot failed to decode.
	ErrCorrupt = snapshot.ErrCorrupt

	// ErrPredicate indicates the schema's collapse script is unusable.
	ErrPredicate = lua.ErrPredicate
)
