package history

import (
	"github.com/cockroachdb/errors"
)

// Scope provides a convenient way to record an edit using defer.
// Usage:
//
//	func doComplexEdit(h *History, doc Document) error {
//	    scope, err := h.Scope(doc, "Complex Edit")
//	    if err != nil {
//	        return err
//	    }
//	    defer scope.End()
//	    // ... multiple mutations ...
//	}
type Scope struct {
	history *History
	doc     Document
	active  bool
}

// Scope starts recording and returns a scope that ends it.
// Inside an already recording edit the scope is inert, so the outer
// edit keeps ownership of the entry.
func (h *History) Scope(doc Document, label string) (*Scope, error) {
	if h.State() == Recording {
		return &Scope{history: h, doc: doc}, nil
	}
	if err := h.Begin(doc, label); err != nil {
		return nil, err
	}
	return &Scope{history: h, doc: doc, active: true}, nil
}

// End commits the scope.
// Safe to call multiple times; only the first call has effect.
func (s *Scope) End() error {
	if !s.active {
		return nil
	}
	s.active = false
	_, err := s.history.Commit(s.doc)
	return err
}

// Cancel drops the scope without creating an entry.
// Note: Mutations already applied still affect the tree.
func (s *Scope) Cancel() {
	if s.active {
		s.history.Cancel()
		s.active = false
	}
}

// Rollback drops the scope and restores the tree to its state at Begin.
func (s *Scope) Rollback() error {
	if !s.active {
		return nil
	}
	s.active = false
	return s.history.Rollback(s.doc)
}

// Transaction executes fn within one recorded edit.
// If fn returns an error, the tree is rolled back to its state before fn
// and no entry is created. Otherwise the edit is committed. Inside an
// already recording edit fn simply runs as part of it.
func (h *History) Transaction(doc Document, label string, fn func() error) error {
	scope, err := h.Scope(doc, label)
	if err != nil {
		return err
	}

	if err := fn(); err != nil {
		if rerr := scope.Rollback(); rerr != nil {
			return errors.CombineErrors(err, rerr)
		}
		return err
	}
	return scope.End()
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all entries committed since the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint, doc Document) error {
	for h.UndoCount() > cp.undoDepth {
		if _, _, err := h.Undo(doc); err != nil {
			return err
		}
	}
	return nil
}
