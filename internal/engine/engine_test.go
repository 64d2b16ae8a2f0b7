package engine

import (
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/markup"
	"github.com/dshills/docstorm/internal/engine/schema"
	"github.com/dshills/docstorm/internal/engine/selection"
)

// surface is an in-memory editing surface.
type surface struct {
	live selection.Live
	has  bool
	sets int
}

func (s *surface) Selection() (selection.Live, bool) { return s.live, s.has }

func (s *surface) SetSelection(l selection.Live) {
	s.live, s.has = l, true
	s.sets++
}

func newEditor(t *testing.T, content string, opts ...Option) *Editor {
	t.Helper()
	e, err := New(append([]Option{WithContent(content)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func content(t *testing.T, e *Editor) string {
	t.Helper()
	s, err := e.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	return s
}

// ============================================================================
// Construction
// ============================================================================

func TestNew(t *testing.T) {
	e := newEditor(t, "")
	if got := content(t, e); got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
	if e.Root().Tag != DefaultRootTag {
		t.Errorf("root tag = %q, want %q", e.Root().Tag, DefaultRootTag)
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("new editor should have empty history")
	}

	other := newEditor(t, "")
	if e.Session() == "" || e.Session() == other.Session() {
		t.Errorf("sessions %q and %q should be distinct and non-empty", e.Session(), other.Session())
	}
}

func TestNewWithOptions(t *testing.T) {
	e := newEditor(t, "<p>AB</p>",
		WithRootTag("article"),
		WithCodec(markup.Codec{}),
		WithMaxUndoEntries(2),
		WithTracer(noop.NewTracerProvider().Tracer("test")),
	)
	if got := content(t, e); got != "<p>AB</p>" {
		t.Errorf("content = %q", got)
	}
	if e.Root().Tag != "article" {
		t.Errorf("root tag = %q, want article", e.Root().Tag)
	}

	for _, text := range []string{"1", "2", "3"} {
		edit(t, e, text, func() { e.Root().Child(0).Child(0).Text = text })
	}
	if n := len(e.UndoInfo()); n != 2 {
		t.Errorf("undo entries = %d, want 2", n)
	}
}

func TestNewInvalidScript(t *testing.T) {
	tbl := schema.New(
		schema.WithTags(schema.Significant, "*"),
		schema.WithCollapseScript(`x = 1`),
	)
	_, err := New(WithSchema(tbl))
	if !errors.Is(err, ErrPredicate) {
		t.Errorf("New() error = %v, want ErrPredicate", err)
	}
}

func TestSetContent(t *testing.T) {
	s := &surface{}
	e := newEditor(t, "<p>A</p>", WithSurface(s))
	edit(t, e, "edit", func() { e.Root().Child(0).Child(0).Text = "B" })

	if err := e.SetContent("<h1>T</h1><p>x</p>"); err != nil {
		t.Fatalf("SetContent() error = %v", err)
	}
	if got := content(t, e); got != "<h1>T</h1><p>x</p>" {
		t.Errorf("content = %q", got)
	}
	if e.CanUndo() {
		t.Error("SetContent should clear the history")
	}
	if s.live.AnchorNode.Text != "T" {
		t.Errorf("selection should move to the document start, got %+v", s.live)
	}
}

func TestTree(t *testing.T) {
	e := newEditor(t, `<p class="x">AB</p>`)
	want := "div\n  p class=\"x\"\n    \"AB\"\n"
	if got := e.Tree(); got != want {
		t.Errorf("Tree() = %q, want %q", got, want)
	}
}

// ============================================================================
// Addressing
// ============================================================================

func TestAddressing(t *testing.T) {
	e := newEditor(t, "<p>A<b>BC</b></p>")
	text := e.Root().Child(0).Child(1).Child(0)

	pos, err := e.AddressOf(text, 1)
	if err != nil {
		t.Fatalf("AddressOf() error = %v", err)
	}
	if pos.String() != "0/1/0:1" {
		t.Errorf("AddressOf() = %s, want 0/1/0:1", pos)
	}

	n, off, err := e.Resolve(pos)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if n != text || off != 1 {
		t.Errorf("Resolve() = (%v, %d)", n, off)
	}

	if _, _, err := e.Resolve(Position{Path: Path{3}}); !errors.Is(err, ErrAddress) {
		t.Errorf("Resolve() error = %v, want ErrAddress", err)
	}

	if got := e.ComparePaths(Path{0}, Path{0, 1}); got != address.Before {
		t.Errorf("ComparePaths() = %s, want before", got)
	}
	if got := e.ComparePaths(Path{1}, Path{0, 1}); got != address.After {
		t.Errorf("ComparePaths() = %s, want after", got)
	}
}

// ============================================================================
// Structural Edits
// ============================================================================

func TestSplitThenMerge(t *testing.T) {
	e := newEditor(t, "<p>AB</p>")

	res, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if res.Levels != 1 {
		t.Errorf("Levels = %d, want 1", res.Levels)
	}
	if got := content(t, e); got != "<p>A</p><p>B</p>" {
		t.Errorf("after split = %q", got)
	}

	if _, err := e.MergeSiblings(e.Root(), nil); err != nil {
		t.Fatalf("MergeSiblings() error = %v", err)
	}
	if got := content(t, e); got != "<p>AB</p>" {
		t.Errorf("after merge = %q", got)
	}
}

func TestSplitOutsideDocument(t *testing.T) {
	e := newEditor(t, "<p>AB</p>")
	_, err := e.Split(Position{Path: Path{4, 0}, Offset: 1}, 1)
	if !errors.Is(err, ErrSplit) {
		t.Errorf("Split() error = %v, want ErrSplit", err)
	}
	if got := content(t, e); got != "<p>AB</p>" {
		t.Errorf("failed split changed content to %q", got)
	}
}

func TestMergeSiblingsRebasesPositions(t *testing.T) {
	e := newEditor(t, "<div><p>AB</p><p>CD</p></div><p>x</p>")

	positions := []Position{
		{Path: Path{0, 1, 0}, Offset: 1},
		{Path: Path{1, 0}, Offset: 0},
	}
	deltas, err := e.MergeSiblings(e.Root().Child(0), positions)
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v", err)
	}
	if got := content(t, e); got != "<div><p>ABCD</p></div><p>x</p>" {
		t.Errorf("content = %q", got)
	}
	if positions[0].String() != "0/0/0:3" || deltas[0] != 2 {
		t.Errorf("inside position = %s delta %d, want 0/0/0:3 delta 2", positions[0], deltas[0])
	}
	if positions[1].String() != "1/0:0" || deltas[1] != 0 {
		t.Errorf("outside position = %s delta %d, want unchanged", positions[1], deltas[1])
	}
}

func TestMergeSiblingsScenario(t *testing.T) {
	e := newEditor(t, `<div><span style="color:red">X</span><span style="color:red">Y</span></div>`)
	if _, err := e.MergeSiblings(e.Root(), nil); err != nil {
		t.Fatalf("MergeSiblings() error = %v", err)
	}
	want := `<div><span style="color:red">XY</span></div>`
	if got := content(t, e); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestMergeText(t *testing.T) {
	e := newEditor(t, "<b>A</b><b>C</b>")
	if err := e.Root().Child(0).AppendChild(dom.NewText("B")); err != nil {
		t.Fatal(err)
	}

	positions := []Position{{Path: Path{0, 1}, Offset: 1}}
	deltas, err := e.MergeText(e.Root(), positions)
	if err != nil {
		t.Fatalf("MergeText() error = %v", err)
	}
	if e.Root().ChildCount() != 2 || e.Root().Child(0).ChildCount() != 1 {
		t.Errorf("tree = %s, want text joined and elements kept", e.Tree())
	}
	if positions[0].String() != "0/0:2" || deltas[0] != 1 {
		t.Errorf("position = %s delta %d, want 0/0:2 delta 1", positions[0], deltas[0])
	}
}

func TestCollapseNested(t *testing.T) {
	all := func(*dom.Node) bool { return true }

	tests := []struct {
		name     string
		table    *schema.Table
		validate Validator
		in       string
		want     string
	}{
		{
			name:     "explicit validator",
			table:    schema.Default(),
			validate: all,
			in:       "<div><b><b>Z</b></b></div>",
			want:     "<div><b>Z</b></div>",
		},
		{
			name:  "allow list fallback",
			table: schema.Default(),
			in:    "<b><b>Z</b></b><u><u>Y</u></u>",
			want:  "<b>Z</b><u><u>Y</u></u>",
		},
		{
			name: "script fallback",
			table: schema.New(
				schema.WithTags(schema.Significant, "*"),
				schema.WithTags(schema.CollapseAllow, "b"),
				schema.WithCollapseScript(`function qualifies(node) return node.tag == "u" end`),
			),
			in:   "<b><b>Z</b></b><u><u>Y</u></u>",
			want: "<b><b>Z</b></b><u>Y</u>",
		},
		{
			name:  "all tags without allow list",
			table: schema.New(schema.WithTags(schema.Significant, "*")),
			in:    "<u><u>Y</u></u>",
			want:  "<u>Y</u>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t, tt.in, WithSchema(tt.table))
			if err := e.CollapseNested(e.Root(), tt.validate); err != nil {
				t.Fatalf("CollapseNested() error = %v", err)
			}
			if got := content(t, e); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnconfiguredSchema(t *testing.T) {
	e := newEditor(t, "<p>AB</p>", WithSchema(schema.New()))

	if _, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Split() error = %v, want ErrConfiguration", err)
	}
	if _, err := e.MergeSiblings(e.Root(), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("MergeSiblings() error = %v, want ErrConfiguration", err)
	}
	if err := e.CollapseNested(e.Root(), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("CollapseNested() error = %v, want ErrConfiguration", err)
	}
	if err := e.PruneEmpty(e.Root(), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("PruneEmpty() error = %v, want ErrConfiguration", err)
	}
}

func TestPruneEmpty(t *testing.T) {
	e := newEditor(t, "<p>A<b></b></p><i></i><p><span></span></p>")
	keep := e.Root().Child(2).Child(0)

	if err := e.PruneEmpty(e.Root(), keep); err != nil {
		t.Fatalf("PruneEmpty() error = %v", err)
	}
	if got := content(t, e); got != "<p>A</p><p><span></span></p>" {
		t.Errorf("content = %q", got)
	}
}

func TestStripWhitespace(t *testing.T) {
	e := newEditor(t, "")
	got, err := e.StripWhitespace("<div>\n  <p>A</p>\n  <p>B</p>\n</div>")
	if err != nil {
		t.Fatalf("StripWhitespace() error = %v", err)
	}
	if got != "<div><p>A</p><p>B</p></div>" {
		t.Errorf("StripWhitespace() = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	s := &surface{}
	e := newEditor(t, "<p><b>A</b><b>B</b><i><i>x</i></i><span></span></p>", WithSurface(s))
	s.live, s.has = selection.LiveCaret(e.Root().Child(0).Child(1).Child(0), 1), true

	if err := e.Normalize(e.Root(), nil); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got := content(t, e); got != "<p><b>AB</b><i>x</i></p>" {
		t.Errorf("content = %q", got)
	}
	if s.live.AnchorNode.Text != "AB" || s.live.AnchorOffset != 2 || !s.live.Collapsed() {
		t.Errorf("selection = %q:%d, want caret after B", s.live.AnchorNode.Text, s.live.AnchorOffset)
	}
}

func TestNormalizeSelection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		caret   []int // path of the caret node below the root
		offset  int
		want    string
		text    string
		offsetW int
	}{
		{"after pruned sibling", "<h3></h3><h1>AB</h1><h2>CD</h2>", []int{1, 0}, 1, "<h1>AB</h1><h2>CD</h2>", "AB", 1},
		{"inside collapsed level", "<b><b>ZY</b></b>", []int{0, 0, 0}, 1, "<b>ZY</b>", "ZY", 1},
		{"after merge and prune", "<i></i><p><b>A</b><b>B</b></p>", []int{1, 1, 0}, 1, "<p><b>AB</b></p>", "AB", 2},
		{"inside pruned node", "<p>A</p><span></span>", []int{1}, 0, "<p>A</p>", "A", 0},
		{"element offset past pruned children", "<p>A<i></i><i></i></p>", []int{0}, 3, "<p>A</p>", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &surface{}
			e := newEditor(t, tt.content, WithSurface(s))
			n := e.Root()
			for _, i := range tt.caret {
				n = n.Child(i)
			}
			s.live, s.has = selection.LiveCaret(n, tt.offset), true

			if err := e.Normalize(e.Root(), nil); err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got := content(t, e); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if !e.Root().Contains(s.live.AnchorNode) || !s.live.Collapsed() {
				t.Fatalf("selection %+v is not a caret inside the document", s.live)
			}
			if s.live.AnchorNode.Text != tt.text || s.live.AnchorOffset != tt.offsetW {
				t.Errorf("selection = %q:%d, want %q:%d",
					s.live.AnchorNode.Text, s.live.AnchorOffset, tt.text, tt.offsetW)
			}
		})
	}
}

// ============================================================================
// History
// ============================================================================

// edit records fn as one committed edit.
func edit(t *testing.T, e *Editor, label string, fn func()) {
	t.Helper()
	if err := e.BeginEdit(label); err != nil {
		t.Fatalf("BeginEdit(%q) error = %v", label, err)
	}
	fn()
	if _, err := e.Commit(); err != nil {
		t.Fatalf("Commit(%q) error = %v", label, err)
	}
}

func TestUndoRedoSequence(t *testing.T) {
	e := newEditor(t, "<p>x</p>")
	text := func() *dom.Node { return e.Root().Child(0).Child(0) }

	edit(t, e, "A", func() { text().Text = "A" })
	edit(t, e, "B", func() { text().Text = "B" })

	steps := []struct {
		op   func() (Live, bool, error)
		want string
	}{
		{e.Undo, "<p>A</p>"},
		{e.Undo, "<p>x</p>"},
		{e.Redo, "<p>A</p>"},
		{e.Redo, "<p>B</p>"},
	}
	for i, step := range steps {
		_, ok, err := step.op()
		if err != nil || !ok {
			t.Fatalf("step %d: ok=%v err=%v", i, ok, err)
		}
		if got := content(t, e); got != step.want {
			t.Errorf("step %d: content = %q, want %q", i, got, step.want)
		}
	}
	if e.CanRedo() {
		t.Error("redo stack should be empty")
	}
	if _, ok, _ := e.Redo(); ok {
		t.Error("Redo() with empty stack should report false")
	}
}

func TestUndoRestoresSelection(t *testing.T) {
	s := &surface{}
	e := newEditor(t, "<p>AB</p>", WithSurface(s))
	s.live, s.has = selection.LiveCaret(e.Root().Child(0).Child(0), 1), true

	edit(t, e, "split", func() {
		res, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		s.SetSelection(selection.LiveCaret(res.Boundary, 0))
	})

	sets := s.sets
	sel, ok, err := e.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() ok=%v err=%v", ok, err)
	}
	if s.sets != sets+1 {
		t.Error("Undo() should update the surface")
	}
	text := e.Root().Child(0).Child(0)
	if sel.AnchorNode != text || sel.AnchorOffset != 1 || s.live.AnchorNode != text {
		t.Errorf("selection after undo = %+v", sel)
	}
}

func TestRedoInvalidation(t *testing.T) {
	e := newEditor(t, "<p>x</p>")
	text := func() *dom.Node { return e.Root().Child(0).Child(0) }

	edit(t, e, "A", func() { text().Text = "A" })
	if _, _, err := e.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	edit(t, e, "C", func() { text().Text = "C" })
	if e.CanRedo() {
		t.Error("a new commit should clear the redo stack")
	}
}

func TestCommitWithoutChange(t *testing.T) {
	e := newEditor(t, "<p>x</p>")
	if err := e.BeginEdit("noop"); err != nil {
		t.Fatal(err)
	}
	pushed, err := e.Commit()
	if err != nil || pushed {
		t.Errorf("Commit() = %v, %v; want false, nil", pushed, err)
	}
}

func TestCancelKeepsMutations(t *testing.T) {
	e := newEditor(t, "<p>x</p>")
	if err := e.BeginEdit("A"); err != nil {
		t.Fatal(err)
	}
	e.Root().Child(0).Child(0).Text = "A"
	e.Cancel()

	if got := content(t, e); got != "<p>A</p>" {
		t.Errorf("content = %q, Cancel should not roll back", got)
	}
	if e.CanUndo() {
		t.Error("Cancel should not create an entry")
	}

	if err := e.BeginEdit("B"); err != nil {
		t.Fatal(err)
	}
	e.Root().Child(0).Child(0).Text = "B"
	if err := e.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if got := content(t, e); got != "<p>A</p>" {
		t.Errorf("content = %q after Rollback, want <p>A</p>", got)
	}
}

func TestTransaction(t *testing.T) {
	e := newEditor(t, "<p>AB</p>")

	err := e.Transaction("split", func() error {
		if _, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1); err != nil {
			return err
		}
		_, err := e.Split(Position{Path: Path{9}}, 1)
		return err
	})
	if !errors.Is(err, ErrSplit) {
		t.Fatalf("Transaction() error = %v, want ErrSplit", err)
	}
	if got := content(t, e); got != "<p>AB</p>" {
		t.Errorf("content = %q, failed transaction should roll back", got)
	}
	if e.CanUndo() {
		t.Error("failed transaction should not create an entry")
	}

	err = e.Transaction("split", func() error {
		_, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1)
		return err
	})
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if info := e.UndoInfo(); len(info) != 1 || info[0].Label != "split" {
		t.Errorf("UndoInfo() = %+v", info)
	}
}

func TestTransactionNested(t *testing.T) {
	e := newEditor(t, "<p>AB</p>")

	err := e.Transaction("outer", func() error {
		return e.Transaction("inner", func() error {
			_, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1)
			return err
		})
	})
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if info := e.UndoInfo(); len(info) != 1 || info[0].Label != "outer" {
		t.Errorf("UndoInfo() = %+v, want one outer entry", info)
	}
}

func TestConcurrentTransactions(t *testing.T) {
	s := &surface{}
	e := newEditor(t, "<h1><b>A</b><b>B</b></h1><p>C</p>", WithSurface(s))
	s.live, s.has = selection.LiveCaret(e.Root().Child(1).Child(0), 1), true

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = e.Transaction("merge", func() error {
				_, err := e.MergeSiblings(e.Root(), nil)
				return err
			})
		}()
		go func() {
			defer wg.Done()
			e.Cancel()
		}()
	}
	wg.Wait()

	if got := content(t, e); got != "<h1><b>AB</b></h1><p>C</p>" {
		t.Errorf("content = %q", got)
	}
}

func TestOnChange(t *testing.T) {
	var (
		ops []string
		e   *Editor
	)
	e = newEditor(t, "<p>x</p>", WithOnChange(func(op string, seq uint64) {
		// The editor is unlocked here.
		if _, err := e.Content(); err != nil {
			t.Errorf("Content() in callback: %v", err)
		}
		ops = append(ops, op)
	}))
	text := func() *dom.Node { return e.Root().Child(0).Child(0) }

	edit(t, e, "A", func() { text().Text = "A" })
	if _, _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Overwrite(); err != nil {
		t.Fatal(err)
	}
	err := e.Transaction("B", func() error {
		_, err := e.Split(Position{Path: Path{0, 0}, Offset: 1}, 1)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	e.ClearHistory()
	if err := e.SetContent("<p>y</p>"); err != nil {
		t.Fatal(err)
	}

	want := []string{"commit", "undo", "redo", "overwrite", "commit", "reset", "reset"}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Errorf("ops = %v, want %v", ops, want)
	}
}

func TestOverwrite(t *testing.T) {
	e := newEditor(t, "<p>x</p>")
	if ok, err := e.Overwrite(); err != nil || ok {
		t.Fatalf("Overwrite() on empty history = %v, %v; want false, nil", ok, err)
	}

	text := func() *dom.Node { return e.Root().Child(0).Child(0) }
	edit(t, e, "A", func() { text().Text = "A" })
	text().Text = "Z"
	if ok, err := e.Overwrite(); err != nil || !ok {
		t.Fatalf("Overwrite() = %v, %v; want true, nil", ok, err)
	}
	if info := e.UndoInfo(); len(info) != 1 || info[0].Label != "A" {
		t.Errorf("UndoInfo() = %+v, want the single entry A", info)
	}

	text().Text = "Q"
	if _, ok, err := e.Undo(); err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if got := content(t, e); got != "<p>Z</p>" {
		t.Errorf("content = %q, want the overwritten entry", got)
	}
}

// ============================================================================
// Observability
// ============================================================================

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEditor(t, "<p>x</p>", WithMetrics(reg))
	edit(t, e, "A", func() { e.Root().Child(0).Child(0).Text = "A" })

	n, err := testutil.GatherAndCount(reg, "docstorm_history_operations_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n == 0 {
		t.Error("expected history operations to be recorded")
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := newEditor(t, "<p>x</p>", WithLogger(zap.New(core)))
	edit(t, e, "A", func() { e.Root().Child(0).Child(0).Text = "A" })

	entries := logs.FilterMessage("history commit").All()
	if len(entries) != 1 {
		t.Fatalf("expected one commit log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["session"]; got != e.Session() {
		t.Errorf("session field = %v, want %s", got, e.Session())
	}
	if !strings.Contains(entries[0].ContextMap()["label"].(string), "A") {
		t.Error("commit log should carry the label")
	}
}
