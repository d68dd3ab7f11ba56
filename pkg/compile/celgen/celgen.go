// Package celgen provides a code-generating artifact backend for the row
// model: expressions are rendered to CEL sources and compiled into CEL
// programs at generation time, including regular expression patterns.
//
// Evaluation follows CEL semantics where they differ from the interpreting
// backend: ordering, arithmetic, and logical operators raise errors on NULL
// operands instead of propagating them, with && and || absorbing an error
// whenever the other operand alone decides the outcome.
package celgen

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/interpreter"

	"github.com/vireodb/vireo/pkg/compile"
	"github.com/vireodb/vireo/pkg/expr"
)

// Backend compiles expressions for the row model.
type Backend struct{}

var _ compile.CursorBackend = (*Backend)(nil)

// New creates a CEL backend.
func New() *Backend {
	return &Backend{}
}

// GenerateCursorProcessor implements compile.CursorBackend.
func (b *Backend) GenerateCursorProcessor(filter expr.Expression, projections []expr.Expression) (compile.CursorArtifact, error) {
	columns, err := referencedColumns(filter, projections)
	if err != nil {
		return nil, err
	}

	env, err := newEnv(columns)
	if err != nil {
		return nil, fmt.Errorf("creating environment: %w", err)
	}

	filterSrc, err := renderCEL(filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	filterProgram, err := compileProgram(env, filterSrc)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	programs := make([]cel.Program, len(projections))
	rendered := make([]string, len(projections))
	for i, projection := range projections {
		src, err := renderCEL(projection)
		if err != nil {
			return nil, fmt.Errorf("projection %d: %w", i, err)
		}
		programs[i], err = compileProgram(env, src)
		if err != nil {
			return nil, fmt.Errorf("projection %d: %w", i, err)
		}
		rendered[i] = src
	}

	return &cursorArtifact{
		desc:        fmt.Sprintf("CELCursorProcessor{filter=%s, projections=[%s]}", filterSrc, strings.Join(rendered, ", ")),
		columns:     columns,
		filter:      filterProgram,
		projections: programs,
	}, nil
}

// newEnv declares every referenced column as a dyn variable: rows are
// untyped until evaluation. Regex literals are validated during checking
// so that invalid patterns fail generation, not row processing.
func newEnv(columns []string) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(columns)+1)
	opts = append(opts, cel.ASTValidators(cel.ValidateRegexLiterals()))
	for _, name := range columns {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}
	return cel.NewEnv(opts...)
}

func compileProgram(env *cel.Env, src string) (cel.Program, error) {
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.OptimizeRegex(interpreter.MatchesRegexOptimization),
	)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Reserved words of the CEL language; they cannot be declared as variables.
var celReserved = map[string]bool{
	"true": true, "false": true, "null": true, "in": true,
	"as": true, "break": true, "const": true, "continue": true,
	"else": true, "for": true, "function": true, "if": true,
	"import": true, "let": true, "loop": true, "package": true,
	"namespace": true, "return": true, "var": true, "void": true,
	"while": true,
}

// referencedColumns collects the distinct column names of the expression
// set in sorted order. Columns become CEL variables, so each name must be
// a valid, non-reserved identifier.
func referencedColumns(filter expr.Expression, projections []expr.Expression) ([]string, error) {
	seen := map[string]bool{}
	collect := func(e expr.Expression) {
		expr.Walk(e, func(node expr.Expression) bool {
			if c, ok := node.(*expr.ColumnExpr); ok {
				seen[c.Name] = true
			}
			return true
		})
	}
	collect(filter)
	for _, projection := range projections {
		collect(projection)
	}

	columns := slices.Sorted(maps.Keys(seen))
	for _, name := range columns {
		if celReserved[name] {
			return nil, fmt.Errorf("column %q is a reserved CEL word", name)
		}
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("column %q is not a valid CEL identifier", name)
		}
	}
	return columns, nil
}
