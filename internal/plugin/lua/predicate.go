package lua

import (
	"sync"

	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/normalize"
)

// PredicateFunc is the global a predicate script must define.
const PredicateFunc = "qualifies"

// Predicate is a compiled collapse predicate.
type Predicate struct {
	state *State

	mu  sync.Mutex
	err error
}

// CompilePredicate runs src in a fresh sandboxed state and checks that it
// defines a global qualifies(node) function.
func CompilePredicate(src string, opts ...StateOption) (*Predicate, error) {
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	if err := state.DoString(src); err != nil {
		state.Close()
		return nil, errors.Mark(errors.Wrap(err, "compiling predicate"), ErrPredicate)
	}
	if fn := state.GetGlobal(PredicateFunc); fn.Type() != lua.LTFunction {
		state.Close()
		return nil, errors.Mark(
			errors.Newf("script does not define %s(node), got %s", PredicateFunc, fn.Type()),
			ErrPredicate)
	}
	return &Predicate{state: state}, nil
}

// Qualifies calls the script for n. The result follows Lua truthiness.
func (p *Predicate) Qualifies(n *dom.Node) (bool, error) {
	if n == nil {
		return false, nil
	}
	ret, err := p.state.Call(PredicateFunc, nodeTable(p.state.L, n))
	if err != nil {
		return false, errors.Mark(errors.Wrapf(err, "%s(<%s>)", PredicateFunc, n.Tag), ErrPredicate)
	}
	return lua.LVAsBool(ret), nil
}

// Validator adapts the predicate for normalize.CollapseNested. A node for
// which the script fails does not qualify; the first failure is kept and
// reported by Err.
func (p *Predicate) Validator() normalize.Validator {
	return func(n *dom.Node) bool {
		ok, err := p.Qualifies(n)
		if err != nil {
			p.mu.Lock()
			if p.err == nil {
				p.err = err
			}
			p.mu.Unlock()
			return false
		}
		return ok
	}
}

// Err returns the first script failure seen by the Validator.
func (p *Predicate) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close releases the underlying Lua state.
func (p *Predicate) Close() error {
	return p.state.Close()
}
