package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dshills/docstorm/internal/engine/schema"
	"github.com/dshills/docstorm/internal/engine/snapshot"
)

// Default configuration values.
const (
	DefaultRootTag        = "div"
	DefaultMaxUndoEntries = 100
	DefaultScriptTimeout  = time.Second
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithContent sets the initial markup of the document.
func WithContent(markup string) Option {
	return func(e *Editor) {
		e.initContent = markup
	}
}

// WithRootTag sets the tag of the document root element.
func WithRootTag(tag string) Option {
	return func(e *Editor) {
		if tag != "" {
			e.rootTag = tag
		}
	}
}

// WithSchema sets the tag-classification table.
// The default is schema.Default().
func WithSchema(t *schema.Table) Option {
	return func(e *Editor) {
		e.table = t
	}
}

// WithCodec sets the codec history snapshots are encoded with.
func WithCodec(c snapshot.Codec) Option {
	return func(e *Editor) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics registers history metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Editor) {
		e.registerer = reg
	}
}

// WithSurface connects the live selection of the editing surface.
func WithSurface(s Surface) Option {
	return func(e *Editor) {
		e.surface = s
	}
}

// WithTracer sets the tracer used for editor operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Editor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithOnChange registers fn to be notified after a commit, undo, redo,
// overwrite or history reset. fn runs after the editor lock is released,
// so it may call back into the Editor.
func WithOnChange(fn func(op string, seq uint64)) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// WithScriptTimeout bounds each call into the schema's collapse script.
func WithScriptTimeout(d time.Duration) Option {
	return func(e *Editor) {
		e.scriptTimeout = d
	}
}
