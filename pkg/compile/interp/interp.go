// Package interp provides an interpreting artifact backend. Expressions
// are compiled into chains of Go closures: generation walks the expression
// tree once, validating operators and compiling match patterns, and
// evaluation runs the prebuilt chain without touching the tree again.
package interp

import (
	"fmt"
	"strings"

	"github.com/vireodb/vireo/pkg/compile"
	"github.com/vireodb/vireo/pkg/expr"
)

// Backend compiles expressions for both execution models.
type Backend struct{}

var (
	_ compile.CursorBackend = (*Backend)(nil)
	_ compile.PageBackend   = (*Backend)(nil)
)

// New creates an interpreting backend.
func New() *Backend {
	return &Backend{}
}

// GenerateCursorProcessor implements compile.CursorBackend.
func (b *Backend) GenerateCursorProcessor(filter expr.Expression, projections []expr.Expression) (compile.CursorArtifact, error) {
	filterEval, err := genRowEval(filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	projectionEvals := make([]rowEval, len(projections))
	rendered := make([]string, len(projections))
	for i, projection := range projections {
		projectionEvals[i], err = genRowEval(projection)
		if err != nil {
			return nil, fmt.Errorf("projection %d: %w", i, err)
		}
		rendered[i] = projection.String()
	}

	return &cursorArtifact{
		desc:        fmt.Sprintf("CursorProcessor{filter=%s, projections=[%s]}", filter, strings.Join(rendered, ", ")),
		filter:      filterEval,
		projections: projectionEvals,
	}, nil
}

// GeneratePageFilter implements compile.PageBackend.
func (b *Backend) GeneratePageFilter(filter expr.Expression) (compile.PageFilterArtifact, error) {
	eval, err := genPageEval(filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return &pageFilterArtifact{desc: filter.String(), eval: eval}, nil
}

// GeneratePageProjection implements compile.PageBackend.
func (b *Backend) GeneratePageProjection(projection expr.Expression) (compile.PageProjectionArtifact, error) {
	eval, err := genPageEval(projection)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	return &pageProjectionArtifact{desc: projection.String(), eval: eval}, nil
}
