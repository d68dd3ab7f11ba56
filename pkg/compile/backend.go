package compile

import (
	"fmt"

	"github.com/vireodb/vireo/pkg/exec"
	"github.com/vireodb/vireo/pkg/expr"
)

// CursorBackend generates row-oriented artifacts. Implementations are free
// to fail with their own error types; the compiler translates every failure
// into a [CompileError] before it reaches callers.
type CursorBackend interface {
	// GenerateCursorProcessor translates a filter predicate and ordered
	// projections into a single executable row artifact.
	GenerateCursorProcessor(filter expr.Expression, projections []expr.Expression) (CursorArtifact, error)
}

// PageBackend generates column-oriented artifacts, one per filter and one
// per projection.
type PageBackend interface {
	// GeneratePageFilter translates a filter predicate into an executable
	// column filter artifact.
	GeneratePageFilter(filter expr.Expression) (PageFilterArtifact, error)
	// GeneratePageProjection translates a single projection into an
	// executable column projection artifact.
	GeneratePageProjection(projection expr.Expression) (PageProjectionArtifact, error)
}

// CursorArtifact is compiled, immutable row-processing logic. Artifacts are
// safely shared read-only across goroutines; all mutable state lives in the
// instances they produce.
type CursorArtifact interface {
	// String returns a diagnostic rendering embedding the filter and
	// projection descriptions the artifact was generated from.
	fmt.Stringer

	// NewCursorProcessor constructs a fresh processor instance. Instances
	// are independent: they share no mutable state with each other.
	NewCursorProcessor() (exec.CursorProcessor, error)
}

// PageFilterArtifact is compiled, immutable column filter logic.
type PageFilterArtifact interface {
	fmt.Stringer

	// NewPageFilter constructs a fresh filter instance.
	NewPageFilter() (exec.PageFilter, error)
}

// PageProjectionArtifact is compiled, immutable column projection logic.
type PageProjectionArtifact interface {
	fmt.Stringer

	// NewPageProjection constructs a fresh projection instance.
	NewPageProjection() (exec.PageProjection, error)
}
