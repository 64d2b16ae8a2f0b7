package lua

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single chunk or function call.
const DefaultExecutionTimeout = time.Second

// State wraps gopher-lua with a restricted global environment and a
// per-call timeout.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// made through State; direct use of the LState bypasses it.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each DoString or Call.
// A value <= 0 disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	if err := openSafeLibraries(L); err != nil {
		L.Close()
		return nil, err
	}
	installSandbox(L)

	state.L = L
	return state, nil
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	return s.withTimeout(func() error {
		return s.L.DoString(code)
	})
}

// Call calls a global Lua function and returns its first result.
// A function that returns nothing yields lua.LNil.
func (s *State) Call(fn string, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	fnVal := s.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return lua.LNil, errors.Newf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	var ret lua.LValue = lua.LNil
	err := s.withTimeout(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fnVal, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// withTimeout runs fn with the state's context bound to the execution
// timeout and recovers panics raised by the VM.
func (s *State) withTimeout(fn func() error) (err error) {
	ctx := context.Background()
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("lua panic: %v", r)
		}
		if err != nil && ctx.Err() != nil {
			err = errors.Mark(errors.Wrap(err, "lua"), ErrExecutionTimeout)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Further calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
