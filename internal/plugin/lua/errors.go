package lua

import "github.com/cockroachdb/errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrPredicate marks a script that does not define a usable predicate
	// or whose predicate failed at run time.
	ErrPredicate = errors.New("lua predicate error")
)
