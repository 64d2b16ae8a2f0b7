package history

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/docstorm/internal/engine/selection"
	"github.com/dshills/docstorm/internal/engine/snapshot"
)

// DefaultMaxEntries is the default capacity of each stack.
const DefaultMaxEntries = 100

// State is the recording state of a History.
type State uint8

const (
	// Idle means no edit is pending.
	Idle State = iota
	// Recording means Begin captured a pre-edit snapshot that has not been
	// committed or cancelled yet.
	Recording
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}

// History manages snapshot based undo/redo state for one document.
//
// The undo stack holds the states to go back to: Commit pushes the
// pre-edit snapshot taken by Begin. Undo and Redo push the live state onto
// the opposite stack before restoring, so the pair always brackets the
// current document.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// Recording state
	state   State
	pending *Entry
	seq     uint64

	// Configuration
	maxEntries int
	codec      snapshot.Codec
	logger     *zap.Logger
	metrics    *Metrics
	onChange   ChangeFunc
}

// ChangeFunc is called after an operation changed a stack. op is one of
// "commit", "undo", "redo", "overwrite" or "reset" and seq is the sequence
// number of the entry involved, or the last one issued for "reset".
type ChangeFunc func(op string, seq uint64)

// change is a stack change waiting to be reported.
type change struct {
	op  string
	seq uint64
}

// Option configures a History during creation.
type Option func(*History)

// WithMaxEntries sets the capacity of each stack.
func WithMaxEntries(max int) Option {
	return func(h *History) {
		if max > 0 {
			h.maxEntries = max
		}
	}
}

// WithCodec sets the snapshot codec. It must round-trip exactly.
func WithCodec(c snapshot.Codec) Option {
	return func(h *History) {
		if c != nil {
			h.codec = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(h *History) {
		h.metrics = m
	}
}

// WithOnChange registers fn to be notified of stack changes. fn runs after
// the history lock is released, so it may query the History.
func WithOnChange(fn ChangeFunc) Option {
	return func(h *History) {
		h.onChange = fn
	}
}

// New creates a new history manager.
func New(opts ...Option) *History {
	h := &History{
		maxEntries: DefaultMaxEntries,
		codec:      snapshot.Structural(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// capture snapshots doc under a new sequence number. The caller holds h.mu.
func (h *History) capture(doc Document, label string) (*Entry, error) {
	e, err := h.snapshot(doc, label)
	if err != nil {
		return nil, err
	}
	h.seq++
	e.seq = h.seq
	return e, nil
}

func (h *History) snapshot(doc Document, label string) (*Entry, error) {
	data, err := h.codec.Encode(doc.Root())
	if err != nil {
		return nil, errors.Wrap(err, "capturing snapshot")
	}
	sel, ok := doc.Selection()
	h.metrics.observeSnapshot(len(data))
	return &Entry{
		label:   label,
		content: data,
		digest:  snapshot.Digest(data),
		sel:     sel.Clone(),
		hasSel:  ok,
		at:      time.Now(),
	}, nil
}

// notify reports c to the change callback. It must be called without h.mu.
func (h *History) notify(c *change) {
	if c != nil && h.onChange != nil {
		h.onChange(c.op, c.seq)
	}
}

// push appends e to stack, evicting the oldest entries beyond capacity.
func (h *History) push(stack []*Entry, e *Entry) []*Entry {
	stack = append(stack, e)
	if len(stack) > h.maxEntries {
		excess := len(stack) - h.maxEntries
		stack = stack[excess:]
	}
	return stack
}

// State returns the recording state.
func (h *History) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Begin starts recording an edit by capturing the pre-edit snapshot.
// While already recording it is a no-op, so nested mutating calls
// coalesce into the open entry.
func (h *History) Begin(doc Document, label string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == Recording {
		return nil
	}
	e, err := h.capture(doc, label)
	if err != nil {
		return err
	}
	h.pending = e
	h.state = Recording
	h.logger.Debug("history begin",
		zap.String("label", label),
		zap.Uint64("seq", e.seq))
	return nil
}

// Commit ends the recording. If the content changed since Begin, the
// pre-edit snapshot is pushed onto the undo stack and the redo stack is
// cleared. It reports whether an entry was pushed. Commit while idle is a
// no-op.
//
// If the post-edit snapshot cannot be taken the history stays recording;
// the caller is expected to Cancel or Rollback.
func (h *History) Commit(doc Document) (bool, error) {
	var c *change
	defer func() { h.notify(c) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Recording {
		return false, nil
	}
	data, err := h.codec.Encode(doc.Root())
	if err != nil {
		return false, errors.Wrap(err, "capturing snapshot")
	}

	e := h.pending
	h.pending = nil
	h.state = Idle

	if snapshot.Digest(data) == e.digest && string(data) == string(e.content) {
		h.logger.Debug("history commit without changes", zap.String("label", e.label))
		h.metrics.observe("commit_noop", len(h.undoStack), len(h.redoStack))
		return false, nil
	}

	h.undoStack = h.push(h.undoStack, e)
	h.redoStack = nil
	h.metrics.observe("commit", len(h.undoStack), len(h.redoStack))
	c = &change{op: "commit", seq: e.seq}
	h.logger.Debug("history commit",
		zap.String("label", e.label),
		zap.Uint64("seq", e.seq),
		zap.Int("undo", len(h.undoStack)))
	return true, nil
}

// Cancel drops the pending entry. The stacks and the tree are left
// untouched: mutations made since Begin stay applied.
func (h *History) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked()
}

func (h *History) cancelLocked() {
	if h.state != Recording {
		return
	}
	h.logger.Debug("history cancel", zap.String("label", h.pending.label))
	h.pending = nil
	h.state = Idle
	h.metrics.observe("cancel", len(h.undoStack), len(h.redoStack))
}

// Rollback restores the pre-edit snapshot taken by Begin and drops the
// pending entry. It is a no-op while idle.
func (h *History) Rollback(doc Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Recording {
		return nil
	}
	e := h.pending
	h.pending = nil
	h.state = Idle
	if err := snapshot.Restore(doc.Root(), h.codec, e.content); err != nil {
		return errors.Wrap(err, "rolling back")
	}
	h.metrics.observe("rollback", len(h.undoStack), len(h.redoStack))
	h.logger.Debug("history rollback", zap.String("label", e.label))
	return nil
}

// Undo restores the most recent undo entry and returns its selection
// resolved against the restored tree. The live state is pushed onto the
// redo stack first. With nothing to undo it returns false and does
// nothing. A pending edit is cancelled first.
func (h *History) Undo(doc Document) (selection.Live, bool, error) {
	var c *change
	defer func() { h.notify(c) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancelLocked()
	if len(h.undoStack) == 0 {
		return selection.Live{}, false, nil
	}

	target := h.undoStack[len(h.undoStack)-1]
	live, err := h.restoreLocked(doc, target)
	if err != nil {
		return selection.Live{}, false, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = h.push(h.redoStack, live)

	h.metrics.observe("undo", len(h.undoStack), len(h.redoStack))
	c = &change{op: "undo", seq: target.seq}
	h.logger.Debug("history undo",
		zap.String("label", target.label),
		zap.Uint64("seq", target.seq),
		zap.Int("undo", len(h.undoStack)),
		zap.Int("redo", len(h.redoStack)))
	return h.resolve(doc, target), true, nil
}

// Redo restores the most recent redo entry. It is the mirror of Undo.
func (h *History) Redo(doc Document) (selection.Live, bool, error) {
	var c *change
	defer func() { h.notify(c) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancelLocked()
	if len(h.redoStack) == 0 {
		return selection.Live{}, false, nil
	}

	target := h.redoStack[len(h.redoStack)-1]
	live, err := h.restoreLocked(doc, target)
	if err != nil {
		return selection.Live{}, false, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = h.push(h.undoStack, live)

	h.metrics.observe("redo", len(h.undoStack), len(h.redoStack))
	c = &change{op: "redo", seq: target.seq}
	h.logger.Debug("history redo",
		zap.String("label", target.label),
		zap.Uint64("seq", target.seq),
		zap.Int("undo", len(h.undoStack)),
		zap.Int("redo", len(h.redoStack)))
	return h.resolve(doc, target), true, nil
}

// restoreLocked captures the live state and swaps target's content in.
// On error the tree and stacks are unchanged.
func (h *History) restoreLocked(doc Document, target *Entry) (*Entry, error) {
	live, err := h.capture(doc, target.label)
	if err != nil {
		return nil, err
	}
	if err := snapshot.Restore(doc.Root(), h.codec, target.content); err != nil {
		return nil, errors.Wrapf(err, "restoring entry %d", target.seq)
	}
	return live, nil
}

// resolve turns the stored selection into a live one. A selection that no
// longer resolves falls back to the start of the document.
func (h *History) resolve(doc Document, e *Entry) selection.Live {
	root := doc.Root()
	if !e.hasSel {
		return selection.StartOfDocument(root)
	}
	live, err := e.sel.Resolve(root)
	if err != nil {
		h.logger.Warn("stored selection does not resolve, using document start",
			zap.Uint64("seq", e.seq),
			zap.Stringer("selection", e.sel),
			zap.Error(err))
		h.metrics.observe("selection_fallback", len(h.undoStack), len(h.redoStack))
		return selection.StartOfDocument(root)
	}
	return live
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Reset removes all undo/redo history and any pending entry.
// Sequence numbers keep increasing across a reset.
func (h *History) Reset() {
	var c *change
	defer func() { h.notify(c) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.pending = nil
	h.state = Idle
	h.metrics.observe("reset", 0, 0)
	c = &change{op: "reset", seq: h.seq}
}

// Overwrite replaces the content and selection of the most recent undo
// entry with the current state of doc, keeping its sequence number and
// label. Nothing is pushed and the redo stack is left alone. It reports
// false if there is no undo entry. A pending edit is not affected.
func (h *History) Overwrite(doc Document) (bool, error) {
	var c *change
	defer func() { h.notify(c) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return false, nil
	}
	top := h.undoStack[len(h.undoStack)-1]
	e, err := h.snapshot(doc, top.label)
	if err != nil {
		return false, err
	}
	e.seq = top.seq
	h.undoStack[len(h.undoStack)-1] = e

	h.metrics.observe("overwrite", len(h.undoStack), len(h.redoStack))
	c = &change{op: "overwrite", seq: e.seq}
	h.logger.Debug("history overwrite",
		zap.String("label", e.label),
		zap.Uint64("seq", e.seq))
	return true, nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo entries, oldest first.
func (h *History) RedoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []*Entry) []Info {
	result := make([]Info, len(stack))
	for i, e := range stack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns the next undo entry without removing it.
func (h *History) PeekUndo() (*Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the next redo entry without removing it.
func (h *History) PeekRedo() (*Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// SetMaxEntries changes the capacity of each stack.
// If a stack is larger, its oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		h.undoStack = h.undoStack[len(h.undoStack)-max:]
	}
	if len(h.redoStack) > max {
		h.redoStack = h.redoStack[len(h.redoStack)-max:]
	}
	h.metrics.observe("resize", len(h.undoStack), len(h.redoStack))
}

// MaxEntries returns the capacity of each stack.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
