package engine

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/history"
	"github.com/dshills/docstorm/internal/engine/markup"
	"github.com/dshills/docstorm/internal/engine/normalize"
	"github.com/dshills/docstorm/internal/engine/schema"
	"github.com/dshills/docstorm/internal/engine/selection"
	"github.com/dshills/docstorm/internal/engine/snapshot"
	"github.com/dshills/docstorm/internal/engine/split"
	"github.com/dshills/docstorm/internal/plugin/lua"
)

const tracerName = "github.com/dshills/docstorm/internal/engine"

// Re-export commonly used types for convenience.
type (
	// Path addresses a node as child indices from the root.
	Path = address.Path

	// Position is a Path plus an offset inside the addressed node.
	Position = address.Position

	// Order is the result of comparing two paths.
	Order = address.Order

	// Range is a path based selection.
	Range = selection.Range

	// Live is a node based selection.
	Live = selection.Live

	// SplitResult describes the outcome of a split.
	SplitResult = split.Result

	// Validator decides whether an element may be collapsed.
	Validator = normalize.Validator
)

// Surface is the live selection of the editing surface.
type Surface interface {
	// Selection returns the current selection, false if there is none.
	Selection() (selection.Live, bool)

	// SetSelection replaces the current selection.
	SetSelection(selection.Live)
}

// Editor owns one document tree together with its history.
//
// All operations are serialized by a mutex, except that Transaction
// releases it while its function runs. Node references returned by an
// operation are only valid until the next mutation; store Positions across
// mutations.
type Editor struct {
	mu sync.Mutex

	// Core components
	root      *dom.Node
	history   *history.History
	table     *schema.Table
	codec     snapshot.Codec
	predicate *lua.Predicate
	surface   Surface

	// Observability
	session string
	logger  *zap.Logger
	tracer  trace.Tracer

	// Configuration
	rootTag        string
	maxUndoEntries int
	registerer     prometheus.Registerer
	scriptTimeout  time.Duration
	onChange       history.ChangeFunc

	// History changes not yet reported to onChange
	changes []change

	// Initialization
	initContent string
}

type change struct {
	op  string
	seq uint64
}

// New creates an Editor with the given options.
// It fails if the initial content does not parse or the schema's collapse
// script does not compile.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		table:          schema.Default(),
		codec:          snapshot.Structural(),
		logger:         zap.NewNop(),
		tracer:         otel.Tracer(tracerName),
		rootTag:        DefaultRootTag,
		maxUndoEntries: DefaultMaxUndoEntries,
		scriptTimeout:  DefaultScriptTimeout,
		session:        uuid.NewString(),
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(zap.String("session", e.session))
	e.root = dom.NewElement(e.rootTag, nil)
	if e.initContent != "" {
		if err := markup.ParseInto(e.root, e.initContent); err != nil {
			return nil, errors.Wrap(err, "initial content")
		}
	}

	if src := e.table.CollapseScript(); src != "" {
		p, err := lua.CompilePredicate(src, lua.WithExecutionTimeout(e.scriptTimeout))
		if err != nil {
			return nil, errors.Wrap(err, "collapse script")
		}
		e.predicate = p
	}

	histOpts := []history.Option{
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithCodec(e.codec),
		history.WithLogger(e.logger),
	}
	if e.onChange != nil {
		// Called by history while e.mu is held; flush reports it later.
		histOpts = append(histOpts, history.WithOnChange(func(op string, seq uint64) {
			e.changes = append(e.changes, change{op: op, seq: seq})
		}))
	}
	if e.registerer != nil {
		histOpts = append(histOpts, history.WithMetrics(history.NewMetrics(e.registerer)))
	}
	e.history = history.New(histOpts...)

	e.logger.Debug("editor created",
		zap.String("root", e.rootTag),
		zap.Int("max_undo", e.maxUndoEntries),
		zap.String("codec", e.codec.Name()),
		zap.Bool("script", e.predicate != nil))
	return e, nil
}

// Close releases the collapse script, if any.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.predicate == nil {
		return nil
	}
	err := e.predicate.Close()
	e.predicate = nil
	return err
}

// Session returns the editor's session id.
func (e *Editor) Session() string {
	return e.session
}

// Schema returns the tag-classification table.
func (e *Editor) Schema() *schema.Table {
	return e.table
}

// Root returns the document root. The root node itself is never replaced.
func (e *Editor) Root() *dom.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// span starts a span for op tagged with the session id.
func (e *Editor) span(op string, attrs ...attribute.KeyValue) trace.Span {
	_, span := e.tracer.Start(context.Background(), "docstorm.editor."+op,
		trace.WithAttributes(append(attrs, attribute.String("docstorm.session", e.session))...))
	return span
}

// end finishes span and records err on it.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ============================================================================
// Content
// ============================================================================

// SetContent replaces the document with the parsed markup and clears the
// history. On a parse error the document is unchanged.
func (e *Editor) SetContent(src string) (err error) {
	span := e.span("set_content", attribute.Int("docstorm.bytes", len(src)))
	defer func() { end(span, err) }()
	defer e.flush()

	nodes, err := markup.Parse(src)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.history.Cancel()
	e.root.TakeChildren()
	for _, n := range nodes {
		if err := e.root.AppendChild(n); err != nil {
			return errors.NewAssertionErrorWithWrappedErrf(err, "set content")
		}
	}
	e.history.Reset()
	if e.surface != nil {
		e.surface.SetSelection(selection.StartOfDocument(e.root))
	}
	e.logger.Debug("content replaced", zap.Int("children", e.root.ChildCount()))
	return nil
}

// Content renders the children of the root as markup.
func (e *Editor) Content() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return markup.Inner(e.root)
}

// Tree returns an indented dump of the document structure.
func (e *Editor) Tree() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return dom.Debug(e.root)
}

// ============================================================================
// Addressing
// ============================================================================

// AddressOf returns the position of offset inside node.
func (e *Editor) AddressOf(node *dom.Node, offset int) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return address.Of(e.root, node, offset)
}

// Resolve returns the node and offset addressed by pos.
func (e *Editor) Resolve(pos Position) (*dom.Node, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return address.Resolve(e.root, pos)
}

// ComparePaths orders two paths in document order.
func (e *Editor) ComparePaths(a, b Path) Order {
	return address.ComparePaths(a, b)
}

// ============================================================================
// Structural Edits
// ============================================================================

// Split divides the ancestors of pos. See split.Split.
func (e *Editor) Split(pos Position, maxDepth int) (res SplitResult, err error) {
	span := e.span("split",
		attribute.String("docstorm.position", pos.String()),
		attribute.Int("docstorm.max_depth", maxDepth))
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err = split.Split(e.root, pos, maxDepth, e.table)
	if err != nil {
		return SplitResult{}, err
	}
	span.SetAttributes(attribute.Int("docstorm.levels", res.Levels))
	e.logger.Debug("split",
		zap.Stringer("position", pos),
		zap.Stringer("seam", res.Seam),
		zap.Int("levels", res.Levels))
	return res, nil
}

// MergeSiblings merges adjacent mergeable siblings below el in a single
// pass. positions are document positions; those inside el are rewritten
// in place and the returned deltas follow normalize.MergeSiblings. A
// position outside el is left alone with a delta of 0.
func (e *Editor) MergeSiblings(el *dom.Node, positions []Position) (deltas []int, err error) {
	span := e.span("merge_siblings", attribute.Int("docstorm.positions", len(positions)))
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mergeLocked(el, positions, normalize.MergeSiblings)
}

// MergeText joins adjacent text nodes below el and leaves elements alone.
// positions behave as in MergeSiblings.
func (e *Editor) MergeText(el *dom.Node, positions []Position) (deltas []int, err error) {
	span := e.span("merge_text", attribute.Int("docstorm.positions", len(positions)))
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mergeLocked(el, positions, normalize.MergeText)
}

type mergeFunc func(*dom.Node, []address.Position, *schema.Table) ([]int, error)

func (e *Editor) mergeLocked(el *dom.Node, positions []Position, merge mergeFunc) ([]int, error) {
	base, err := address.PathOf(e.root, el)
	if err != nil {
		return nil, err
	}

	var (
		inside []int
		rel    []address.Position
	)
	for i, p := range positions {
		if r, ok := address.Rebase(p, base); ok {
			inside = append(inside, i)
			rel = append(rel, r)
		}
	}

	relDeltas, err := merge(el, rel, e.table)
	if err != nil {
		return nil, err
	}

	deltas := make([]int, len(positions))
	for j, i := range inside {
		positions[i] = address.Join(base, rel[j])
		deltas[i] = relDeltas[j]
	}
	return deltas, nil
}

// CollapseNested removes redundant same-tag wrappers below el. A nil
// validate falls back to the schema's collapse script, then to its
// collapse allow list, then accepts every tag.
func (e *Editor) CollapseNested(el *dom.Node, validate Validator) (err error) {
	span := e.span("collapse_nested")
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collapseLocked(el, validate)
}

func (e *Editor) collapseLocked(el *dom.Node, validate Validator) error {
	if validate == nil {
		validate = e.defaultValidator()
	}
	if err := normalize.CollapseNested(el, validate, e.table); err != nil {
		return err
	}
	if e.predicate != nil {
		if err := e.predicate.Err(); err != nil {
			e.logger.Warn("collapse script failed, nodes were kept", zap.Error(err))
		}
	}
	return nil
}

func (e *Editor) defaultValidator() Validator {
	if e.predicate != nil {
		return e.predicate.Validator()
	}
	return normalize.AllowTable(e.table)
}

// PruneEmpty removes empty nodes below el, never removing keep or its
// ancestors.
func (e *Editor) PruneEmpty(el, keep *dom.Node) (err error) {
	span := e.span("prune_empty")
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	return normalize.PruneEmpty(el, keep, e.table)
}

// StripWhitespace removes formatting whitespace from markup before it is
// loaded. The document is not touched.
func (e *Editor) StripWhitespace(src string) (string, error) {
	return markup.StripWhitespace(src, e.table)
}

// Normalize runs merge, collapse and prune over el in that order. Merging
// repeats until nothing merges. The surface selection, if any, is carried
// through the merge as paths and then held as nodes while collapse and
// prune restructure the tree. It falls back to the start of the document
// when one of its nodes was removed.
func (e *Editor) Normalize(el, keep *dom.Node) (err error) {
	span := e.span("normalize")
	defer func() { end(span, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	sel, hasSel := e.captureLocked()
	var positions []Position
	if hasSel {
		positions = []Position{sel.Anchor, sel.Focus}
	}
	if _, err := e.mergeLocked(el, positions, normalize.MergeSiblingsAll); err != nil {
		return err
	}

	var live selection.Live
	if hasSel {
		r := selection.NewRange(positions[0], positions[1])
		resolved, rerr := r.Resolve(e.root)
		if rerr != nil {
			e.logger.Debug("selection lost in merge", zap.Stringer("selection", r), zap.Error(rerr))
			resolved = selection.StartOfDocument(e.root)
		}
		live = resolved
	}

	if err := e.collapseLocked(el, nil); err != nil {
		return err
	}
	if err := normalize.PruneEmpty(el, keep, e.table); err != nil {
		return err
	}

	if hasSel {
		e.surface.SetSelection(e.retainLocked(live))
	}
	return nil
}

// retainLocked returns live if both of its ends are still attached to the
// document, clamping element offsets to the remaining children. Otherwise
// it returns a caret at the start of the document.
func (e *Editor) retainLocked(live selection.Live) selection.Live {
	if !e.root.Contains(live.AnchorNode) || !e.root.Contains(live.FocusNode) {
		e.logger.Debug("selection lost in normalize")
		return selection.StartOfDocument(e.root)
	}
	live.AnchorOffset = clampOffset(live.AnchorNode, live.AnchorOffset)
	live.FocusOffset = clampOffset(live.FocusNode, live.FocusOffset)
	return live
}

func clampOffset(n *dom.Node, offset int) int {
	if limit := n.Len(); offset > limit {
		return limit
	}
	return offset
}

// ============================================================================
// History
// ============================================================================

// document adapts the editor for history without taking the editor lock.
type document struct {
	e *Editor
}

func (d document) Root() *dom.Node { return d.e.root }

func (d document) Selection() (selection.Range, bool) { return d.e.captureLocked() }

// captureLocked turns the surface selection into paths.
func (e *Editor) captureLocked() (selection.Range, bool) {
	if e.surface == nil {
		return selection.Range{}, false
	}
	live, ok := e.surface.Selection()
	if !ok {
		return selection.Range{}, false
	}
	r, err := selection.Capture(e.root, live)
	if err != nil {
		e.logger.Debug("surface selection outside document", zap.Error(err))
		return selection.Range{}, false
	}
	return r, true
}

// flush reports queued history changes to the change callback. It takes
// e.mu itself, so it is deferred before the lock is acquired.
func (e *Editor) flush() {
	if e.onChange == nil {
		return
	}
	e.mu.Lock()
	changes := e.changes
	e.changes = nil
	e.mu.Unlock()

	for _, c := range changes {
		e.onChange(c.op, c.seq)
	}
}

// BeginEdit starts recording an edit. Nested calls coalesce.
func (e *Editor) BeginEdit(label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Begin(document{e}, label)
}

// Commit ends the edit and reports whether an undo entry was created.
func (e *Editor) Commit() (bool, error) {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Commit(document{e})
}

// Cancel drops the pending edit without restoring the tree.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Cancel()
}

// Rollback drops the pending edit and restores the tree to its state at
// BeginEdit.
func (e *Editor) Rollback() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Rollback(document{e})
}

// Transaction runs fn as one edit, rolling back if fn fails. The lock is
// held while the edit begins and ends but not while fn runs, so fn may
// call other Editor methods. Inside an already recording edit fn simply
// runs as part of it.
func (e *Editor) Transaction(label string, fn func() error) error {
	e.mu.Lock()
	if e.history.State() == history.Recording {
		e.mu.Unlock()
		return fn()
	}
	err := e.history.Begin(document{e}, label)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if err := fn(); err != nil {
		if rerr := e.Rollback(); rerr != nil {
			return errors.CombineErrors(err, rerr)
		}
		return err
	}
	_, err = e.Commit()
	return err
}

// Overwrite replaces the most recent undo entry with the current document
// and selection without adding an entry. It reports false if there is no
// undo entry.
func (e *Editor) Overwrite() (bool, error) {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Overwrite(document{e})
}

// Undo restores the previous entry. The restored selection is applied to
// the surface and returned. It reports false if there was nothing to undo.
func (e *Editor) Undo() (sel Live, ok bool, err error) {
	span := e.span("undo")
	defer func() { end(span, err) }()
	defer e.flush()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(e.history.Undo(document{e}))
}

// Redo restores the next entry. It is the mirror of Undo.
func (e *Editor) Redo() (sel Live, ok bool, err error) {
	span := e.span("redo")
	defer func() { end(span, err) }()
	defer e.flush()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(e.history.Redo(document{e}))
}

func (e *Editor) apply(sel Live, ok bool, err error) (Live, bool, error) {
	if err == nil && ok && e.surface != nil {
		e.surface.SetSelection(sel)
	}
	return sel, ok, err
}

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoInfo describes the undo stack, oldest first.
func (e *Editor) UndoInfo() []history.Info {
	return e.history.UndoInfo()
}

// RedoInfo describes the redo stack, oldest first.
func (e *Editor) RedoInfo() []history.Info {
	return e.history.RedoInfo()
}

// ClearHistory discards all undo and redo entries.
func (e *Editor) ClearHistory() {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Reset()
}
