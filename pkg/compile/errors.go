package compile

import (
	"fmt"
	"strings"

	"github.com/vireodb/vireo/pkg/expr"
)

// CompileError indicates that code generation or artifact loading failed
// for a filter and projection set. It is the only error kind the compiler
// raises for generation failures: backend-specific errors never cross the
// compiler boundary un-wrapped, only as the cause of a CompileError.
type CompileError struct {
	// Filter is the rendered filter predicate the compilation was for.
	Filter string
	// Projections are the rendered projections the compilation was for.
	Projections []string

	cause error
}

func newCompileError(filter expr.Expression, projections []expr.Expression, cause error) *CompileError {
	return &CompileError{
		Filter:      renderFilter(filter),
		Projections: renderProjections(projections),
		cause:       cause,
	}
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling filter=%s, projections=[%s]: %v", e.Filter, strings.Join(e.Projections, ", "), e.cause)
}

// Unwrap returns the backend's underlying cause.
func (e *CompileError) Unwrap() error { return e.cause }

// InstantiationError indicates that a successfully compiled artifact could
// not be instantiated. It is distinct from [CompileError]: the expressions
// were provably compilable and the fault is per-invocation; callers may
// retry by invoking the factory again.
type InstantiationError struct {
	// Artifact is the diagnostic rendering of the artifact that failed to
	// instantiate.
	Artifact string

	cause error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating %s: %v", e.Artifact, e.cause)
}

// Unwrap returns the underlying cause.
func (e *InstantiationError) Unwrap() error { return e.cause }

func renderFilter(filter expr.Expression) string {
	if filter == nil {
		return "true"
	}
	return filter.String()
}

func renderProjections(projections []expr.Expression) []string {
	rendered := make([]string, len(projections))
	for i, p := range projections {
		rendered[i] = p.String()
	}
	return rendered
}
