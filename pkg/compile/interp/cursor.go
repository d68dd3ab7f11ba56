package interp

import (
	"fmt"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/exec"
	"github.com/vireodb/vireo/pkg/expr"
)

// frame is the evaluation context of one cursor row: the cursor positioned
// at the row plus its column layout.
type frame struct {
	cur  exec.Cursor
	cols map[string]int
}

// value reads the named column from the current row. Columns absent from
// the cursor read as NULL.
func (f *frame) value(name string) datatype.Literal {
	idx, ok := f.cols[name]
	if !ok {
		return datatype.NewNullLiteral()
	}
	return f.cur.Value(idx)
}

// rowEval evaluates one compiled expression against the current row.
type rowEval func(f *frame) (datatype.Literal, error)

// genRowEval compiles an expression into a closure chain. Operators and
// match patterns are validated here; evaluation cannot fail on them later.
func genRowEval(e expr.Expression) (rowEval, error) {
	switch e := e.(type) {
	case *expr.LiteralExpr:
		lit := e.Literal
		return func(*frame) (datatype.Literal, error) {
			return lit, nil
		}, nil

	case *expr.ColumnExpr:
		name := e.Name
		return func(f *frame) (datatype.Literal, error) {
			return f.value(name), nil
		}, nil

	case *expr.UnaryExpr:
		if !validUnaryOp(e.Op) {
			return nil, fmt.Errorf("unsupported unary operation %s", e.Op)
		}
		left, err := genRowEval(e.Left)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(f *frame) (datatype.Literal, error) {
			v, err := left(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			return evalUnary(op, v)
		}, nil

	case *expr.BinaryExpr:
		return genRowBinary(e)
	}
	return nil, fmt.Errorf("unknown expression: %v", e)
}

func genRowBinary(e *expr.BinaryExpr) (rowEval, error) {
	left, err := genRowEval(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	// AND and OR short-circuit on the left operand: the right chain only
	// runs when it can still change the outcome.
	case expr.BinaryOpAnd:
		right, err := genRowEval(e.Right)
		if err != nil {
			return nil, err
		}
		return func(f *frame) (datatype.Literal, error) {
			l, err := left(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			if !l.IsNull() && l.Type() == datatype.Bool && !l.Bool() {
				return datatype.NewLiteral(false), nil
			}
			r, err := right(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			return kleeneAnd(l, r)
		}, nil

	case expr.BinaryOpOr:
		right, err := genRowEval(e.Right)
		if err != nil {
			return nil, err
		}
		return func(f *frame) (datatype.Literal, error) {
			l, err := left(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			if !l.IsNull() && l.Type() == datatype.Bool && l.Bool() {
				return datatype.NewLiteral(true), nil
			}
			r, err := right(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			return kleeneOr(l, r)
		}, nil

	case expr.BinaryOpMatchRe:
		re, err := compileMatchPattern(e.Right)
		if err != nil {
			return nil, err
		}
		return func(f *frame) (datatype.Literal, error) {
			v, err := left(f)
			if err != nil {
				return datatype.Literal{}, err
			}
			return matchString(re, v)
		}, nil
	}

	if !validBinaryOp(e.Op) {
		return nil, fmt.Errorf("unsupported binary operation %s", e.Op)
	}
	right, err := genRowEval(e.Right)
	if err != nil {
		return nil, err
	}
	op := e.Op
	return func(f *frame) (datatype.Literal, error) {
		l, err := left(f)
		if err != nil {
			return datatype.Literal{}, err
		}
		r, err := right(f)
		if err != nil {
			return datatype.Literal{}, err
		}
		return evalBinary(op, l, r)
	}, nil
}

// cursorArtifact is a compiled filter and projection set for the row
// model. It is immutable and shared across processor instances.
type cursorArtifact struct {
	desc        string
	filter      rowEval
	projections []rowEval
}

func (a *cursorArtifact) String() string { return a.desc }

// NewCursorProcessor implements compile.CursorArtifact.
func (a *cursorArtifact) NewCursorProcessor() (exec.CursorProcessor, error) {
	return &cursorProcessor{
		artifact: a,
		scratch:  make([]datatype.Literal, len(a.projections)),
	}, nil
}

// cursorProcessor runs a compiled artifact row by row. All mutable state
// is per instance.
type cursorProcessor struct {
	artifact *cursorArtifact
	scratch  []datatype.Literal

	processed int64
	emitted   int64
}

var _ exec.CursorProcessor = (*cursorProcessor)(nil)

func (p *cursorProcessor) String() string { return p.artifact.desc }

// ProcessCursor implements exec.CursorProcessor.
func (p *cursorProcessor) ProcessCursor(cur exec.Cursor, out *exec.RowBuffer) (int64, error) {
	cols := make(map[string]int, len(cur.Columns()))
	for i, name := range cur.Columns() {
		cols[name] = i
	}
	f := frame{cur: cur, cols: cols}

	var read int64
	for cur.Next() {
		read++
		p.processed++

		keep, err := p.artifact.filter(&f)
		if err != nil {
			return read, err
		}
		selected, err := accepted(keep)
		if err != nil {
			return read, err
		}
		if !selected {
			continue
		}

		for i, projection := range p.artifact.projections {
			v, err := projection(&f)
			if err != nil {
				return read, err
			}
			p.scratch[i] = v
		}
		out.Append(p.scratch)
		p.emitted++
	}
	return read, cur.Err()
}

// RowsProcessed implements exec.CursorProcessor.
func (p *cursorProcessor) RowsProcessed() int64 { return p.processed }

// RowsEmitted implements exec.CursorProcessor.
func (p *cursorProcessor) RowsEmitted() int64 { return p.emitted }

// accepted interprets a filter result: NULL keeps nothing, and anything
// other than a bool is a type error.
func accepted(v datatype.Literal) (bool, error) {
	if v.IsNull() {
		return false, nil
	}
	if v.Type() != datatype.Bool {
		return false, fmt.Errorf("filter evaluated to %s, expected %s", v.Type(), datatype.Bool)
	}
	return v.Bool(), nil
}
