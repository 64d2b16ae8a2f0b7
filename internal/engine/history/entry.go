package history

import (
	"time"

	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/selection"
)

// Document is the editing state history captures and restores.
type Document interface {
	// Root returns the editing root. Its children are snapshotted; the
	// root element itself is never replaced.
	Root() *dom.Node

	// Selection returns the current selection as paths, or false when
	// there is none.
	Selection() (selection.Range, bool)
}

// Entry is an immutable snapshot of a document's content and selection.
type Entry struct {
	seq     uint64
	label   string
	content []byte
	digest  uint64
	sel     selection.Range
	hasSel  bool
	at      time.Time
}

// Seq returns the sequence number. Sequence numbers increase
// monotonically over the lifetime of a History.
func (e *Entry) Seq() uint64 { return e.seq }

// Label returns the human-readable description of the edit.
func (e *Entry) Label() string { return e.label }

// Content returns a copy of the encoded snapshot.
func (e *Entry) Content() []byte {
	out := make([]byte, len(e.content))
	copy(out, e.content)
	return out
}

// Digest returns the content fingerprint.
func (e *Entry) Digest() uint64 { return e.digest }

// Selection returns the selection stored with the snapshot.
func (e *Entry) Selection() (selection.Range, bool) {
	return e.sel.Clone(), e.hasSel
}

// Time returns when the snapshot was taken.
func (e *Entry) Time() time.Time { return e.at }

// Info provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type Info struct {
	Seq   uint64    // Sequence number
	Label string    // Human-readable description
	Time  time.Time // When the snapshot was taken
	Size  int       // Encoded snapshot size in bytes
}

func (e *Entry) info() Info {
	return Info{Seq: e.seq, Label: e.label, Time: e.at, Size: len(e.content)}
}
