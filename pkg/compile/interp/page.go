package interp

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/exec"
	"github.com/vireodb/vireo/pkg/expr"
)

// vector holds the values of one expression evaluated over every row of a
// page.
type vector interface {
	// Value returns the value at row i.
	Value(i int) datatype.Literal
	// ToArray materializes the vector as an Arrow array owned by the caller.
	ToArray() arrow.Array
	// Release drops the vector's reference to any underlying array.
	Release()
}

// pageEval evaluates one compiled expression over a whole page.
type pageEval func(page arrow.Record) (vector, error)

// genPageEval compiles an expression into a closure chain over pages.
// Operators and match patterns are validated here.
func genPageEval(e expr.Expression) (pageEval, error) {
	switch e := e.(type) {
	case *expr.LiteralExpr:
		lit := e.Literal
		return func(page arrow.Record) (vector, error) {
			return &scalarVector{value: lit, rows: page.NumRows()}, nil
		}, nil

	case *expr.ColumnExpr:
		name := e.Name
		return func(page arrow.Record) (vector, error) {
			return columnVector(page, name)
		}, nil

	case *expr.UnaryExpr:
		if !validUnaryOp(e.Op) {
			return nil, fmt.Errorf("unsupported unary operation %s", e.Op)
		}
		left, err := genPageEval(e.Left)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(page arrow.Record) (vector, error) {
			lhs, err := left(page)
			if err != nil {
				return nil, err
			}
			defer lhs.Release()
			return elementwise(page.NumRows(), func(i int) (datatype.Literal, error) {
				return evalUnary(op, lhs.Value(i))
			})
		}, nil

	case *expr.BinaryExpr:
		return genPageBinary(e)
	}
	return nil, fmt.Errorf("unknown expression: %v", e)
}

func genPageBinary(e *expr.BinaryExpr) (pageEval, error) {
	left, err := genPageEval(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op == expr.BinaryOpMatchRe {
		re, err := compileMatchPattern(e.Right)
		if err != nil {
			return nil, err
		}
		return func(page arrow.Record) (vector, error) {
			lhs, err := left(page)
			if err != nil {
				return nil, err
			}
			defer lhs.Release()
			return elementwise(page.NumRows(), func(i int) (datatype.Literal, error) {
				return matchString(re, lhs.Value(i))
			})
		}, nil
	}

	if !validBinaryOp(e.Op) {
		return nil, fmt.Errorf("unsupported binary operation %s", e.Op)
	}
	right, err := genPageEval(e.Right)
	if err != nil {
		return nil, err
	}
	op := e.Op
	return func(page arrow.Record) (vector, error) {
		lhs, err := left(page)
		if err != nil {
			return nil, err
		}
		defer lhs.Release()
		rhs, err := right(page)
		if err != nil {
			return nil, err
		}
		defer rhs.Release()
		return elementwise(page.NumRows(), func(i int) (datatype.Literal, error) {
			return evalBinary(op, lhs.Value(i), rhs.Value(i))
		})
	}, nil
}

// elementwise applies fn to every row, accumulating a uniformly typed
// result vector.
func elementwise(rows int64, fn func(i int) (datatype.Literal, error)) (vector, error) {
	out := &resultVector{
		values: make([]datatype.Literal, rows),
		dt:     datatype.Null,
	}
	for i := range int(rows) {
		v, err := fn(i)
		if err != nil {
			return nil, err
		}
		if !v.IsNull() {
			if out.dt == datatype.Null {
				out.dt = v.Type()
			} else if out.dt != v.Type() {
				return nil, fmt.Errorf("mixed result types: %s and %s", out.dt, v.Type())
			}
		}
		out.values[i] = v
	}
	return out, nil
}

// scalarVector repeats one literal for every row of a page.
type scalarVector struct {
	value datatype.Literal
	rows  int64
}

var _ vector = (*scalarVector)(nil)

// Value implements vector.
func (v *scalarVector) Value(int) datatype.Literal {
	return v.value
}

// ToArray implements vector.
func (v *scalarVector) ToArray() arrow.Array {
	if v.value.IsNull() {
		return array.NewNull(int(v.rows))
	}

	mem := memory.NewGoAllocator()
	builder := array.NewBuilder(mem, v.value.Type().ArrowType())
	defer builder.Release()

	switch builder := builder.(type) {
	case *array.BooleanBuilder:
		value := v.value.Bool()
		for range v.rows {
			builder.Append(value)
		}
	case *array.StringBuilder:
		value := v.value.Str()
		for range v.rows {
			builder.Append(value)
		}
	case *array.Int64Builder:
		value := v.value.Int()
		for range v.rows {
			builder.Append(value)
		}
	case *array.Float64Builder:
		value := v.value.Float()
		for range v.rows {
			builder.Append(value)
		}
	case *array.TimestampBuilder:
		value := arrow.Timestamp(v.value.Ts())
		for range v.rows {
			builder.Append(value)
		}
	}
	return builder.NewArray()
}

// Release implements vector.
func (v *scalarVector) Release() {}

// arrayVector wraps one page column.
type arrayVector struct {
	array arrow.Array
	dt    datatype.DataType
}

var _ vector = (*arrayVector)(nil)

// columnVector resolves the named column of a page. Columns absent from
// the page evaluate as NULL for every row.
func columnVector(page arrow.Record, name string) (vector, error) {
	indices := page.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return &scalarVector{value: datatype.NewNullLiteral(), rows: page.NumRows()}, nil
	}

	arr := page.Column(indices[0])
	dt, ok := datatype.FromArrowType(arr.DataType())
	if !ok {
		return nil, fmt.Errorf("column %s has unsupported type %s", name, arr.DataType())
	}
	arr.Retain()
	return &arrayVector{array: arr, dt: dt}, nil
}

// Value implements vector.
func (v *arrayVector) Value(i int) datatype.Literal {
	if v.array.IsNull(i) {
		return datatype.NewNullLiteral()
	}
	switch arr := v.array.(type) {
	case *array.Boolean:
		return datatype.NewLiteral(arr.Value(i))
	case *array.String:
		return datatype.NewLiteral(arr.Value(i))
	case *array.Int64:
		return datatype.NewLiteral(arr.Value(i))
	case *array.Float64:
		return datatype.NewLiteral(arr.Value(i))
	case *array.Timestamp:
		return datatype.NewTimestampLiteral(int64(arr.Value(i)))
	}
	return datatype.NewNullLiteral()
}

// ToArray implements vector.
func (v *arrayVector) ToArray() arrow.Array {
	v.array.Retain()
	return v.array
}

// Release implements vector.
func (v *arrayVector) Release() {
	v.array.Release()
}

// resultVector holds per-row evaluation results of one uniform type.
type resultVector struct {
	values []datatype.Literal
	dt     datatype.DataType
}

var _ vector = (*resultVector)(nil)

// Value implements vector.
func (v *resultVector) Value(i int) datatype.Literal {
	return v.values[i]
}

// ToArray implements vector.
func (v *resultVector) ToArray() arrow.Array {
	if v.dt == datatype.Null {
		return array.NewNull(len(v.values))
	}

	mem := memory.NewGoAllocator()
	builder := array.NewBuilder(mem, v.dt.ArrowType())
	defer builder.Release()

	for _, value := range v.values {
		if value.IsNull() {
			builder.AppendNull()
			continue
		}
		switch builder := builder.(type) {
		case *array.BooleanBuilder:
			builder.Append(value.Bool())
		case *array.StringBuilder:
			builder.Append(value.Str())
		case *array.Int64Builder:
			builder.Append(value.Int())
		case *array.Float64Builder:
			builder.Append(value.Float())
		case *array.TimestampBuilder:
			builder.Append(arrow.Timestamp(value.Ts()))
		}
	}
	return builder.NewArray()
}

// Release implements vector.
func (v *resultVector) Release() {}

// pageFilterArtifact is a compiled filter for the page model.
type pageFilterArtifact struct {
	desc string
	eval pageEval
}

func (a *pageFilterArtifact) String() string { return a.desc }

// NewPageFilter implements compile.PageFilterArtifact.
func (a *pageFilterArtifact) NewPageFilter() (exec.PageFilter, error) {
	return &pageFilter{desc: a.desc, eval: a.eval}, nil
}

// pageFilter evaluates a compiled predicate over pages. The keep slice is
// per-instance scratch reused across pages.
type pageFilter struct {
	desc string
	eval pageEval
	keep []int
}

var _ exec.PageFilter = (*pageFilter)(nil)

func (f *pageFilter) String() string { return f.desc }

// Filter implements exec.PageFilter.
func (f *pageFilter) Filter(page arrow.Record) ([]int, error) {
	v, err := f.eval(page)
	if err != nil {
		return nil, err
	}
	defer v.Release()

	f.keep = f.keep[:0]
	for i := range int(page.NumRows()) {
		value := v.Value(i)
		if value.IsNull() {
			continue
		}
		if value.Type() != datatype.Bool {
			return nil, fmt.Errorf("filter evaluated to %s, expected %s", value.Type(), datatype.Bool)
		}
		if value.Bool() {
			f.keep = append(f.keep, i)
		}
	}
	return f.keep, nil
}

// pageProjectionArtifact is a compiled projection for the page model.
type pageProjectionArtifact struct {
	desc string
	eval pageEval
}

func (a *pageProjectionArtifact) String() string { return a.desc }

// NewPageProjection implements compile.PageProjectionArtifact.
func (a *pageProjectionArtifact) NewPageProjection() (exec.PageProjection, error) {
	return &pageProjection{desc: a.desc, eval: a.eval}, nil
}

type pageProjection struct {
	desc string
	eval pageEval
}

var _ exec.PageProjection = (*pageProjection)(nil)

func (p *pageProjection) String() string { return p.desc }

// Project implements exec.PageProjection.
func (p *pageProjection) Project(page arrow.Record) (arrow.Array, error) {
	v, err := p.eval(page)
	if err != nil {
		return nil, err
	}
	defer v.Release()
	return v.ToArray(), nil
}
