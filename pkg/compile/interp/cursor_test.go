package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/exec"
	"github.com/vireodb/vireo/pkg/expr"
)

func col(name string) expr.Expression { return expr.NewColumn(name) }

func intLit(v int64) expr.Expression { return expr.NewLiteral(v) }

func binary(l expr.Expression, op expr.BinaryOp, r expr.Expression) expr.Expression {
	return &expr.BinaryExpr{Left: l, Right: r, Op: op}
}

func testCursor() exec.Cursor {
	return exec.NewSliceCursor(
		[]string{"name", "age", "score"},
		[][]datatype.Literal{
			{datatype.NewLiteral("alice"), datatype.NewLiteral(int64(30)), datatype.NewLiteral(1.5)},
			{datatype.NewLiteral("bob"), datatype.NewLiteral(int64(17)), datatype.NewLiteral(2.5)},
			{datatype.NewLiteral("charlie"), datatype.NewNullLiteral(), datatype.NewLiteral(3.5)},
			{datatype.NewLiteral("dana"), datatype.NewLiteral(int64(41)), datatype.NewNullLiteral()},
		},
	)
}

func newCursorProcessor(t *testing.T, filter expr.Expression, projections ...expr.Expression) exec.CursorProcessor {
	t.Helper()
	artifact, err := New().GenerateCursorProcessor(filter, projections)
	require.NoError(t, err)
	processor, err := artifact.NewCursorProcessor()
	require.NoError(t, err)
	return processor
}

func TestGenerateCursorProcessor(t *testing.T) {
	t.Run("filters and projects rows", func(t *testing.T) {
		processor := newCursorProcessor(t,
			binary(col("age"), expr.BinaryOpGt, intLit(21)),
			col("name"),
			binary(col("age"), expr.BinaryOpAdd, intLit(1)),
		)

		var out exec.RowBuffer
		read, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)
		require.Equal(t, int64(4), read)

		require.Equal(t, [][]datatype.Literal{
			{datatype.NewLiteral("alice"), datatype.NewLiteral(int64(31))},
			{datatype.NewLiteral("dana"), datatype.NewLiteral(int64(42))},
		}, out.Rows())

		require.Equal(t, int64(4), processor.RowsProcessed())
		require.Equal(t, int64(2), processor.RowsEmitted())
	})

	t.Run("constant true filter keeps every row", func(t *testing.T) {
		processor := newCursorProcessor(t, expr.NewLiteral(true), col("name"))

		var out exec.RowBuffer
		read, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)
		require.Equal(t, int64(4), read)
		require.Equal(t, 4, out.Len())
	})

	t.Run("missing columns read as null", func(t *testing.T) {
		processor := newCursorProcessor(t,
			&expr.UnaryExpr{Op: expr.UnaryOpIsNull, Left: col("missing")},
			col("missing"),
		)

		var out exec.RowBuffer
		_, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)

		require.Equal(t, 4, out.Len())
		for _, row := range out.Rows() {
			require.True(t, row[0].IsNull())
		}
	})

	t.Run("matches regular expressions", func(t *testing.T) {
		processor := newCursorProcessor(t,
			binary(col("name"), expr.BinaryOpMatchRe, expr.NewLiteral("^(a|d)")),
			col("name"),
		)

		var out exec.RowBuffer
		_, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)

		require.Equal(t, [][]datatype.Literal{
			{datatype.NewLiteral("alice")},
			{datatype.NewLiteral("dana")},
		}, out.Rows())
	})

	t.Run("short-circuits logical operators", func(t *testing.T) {
		// The right operand divides by zero when evaluated, so rows decided
		// by the left operand alone must never reach it.
		dividesByZero := binary(
			binary(intLit(1), expr.BinaryOpDiv, intLit(0)),
			expr.BinaryOpGt, intLit(0),
		)

		processor := newCursorProcessor(t,
			binary(
				&expr.UnaryExpr{Op: expr.UnaryOpNot, Left: &expr.UnaryExpr{Op: expr.UnaryOpIsNull, Left: col("name")}},
				expr.BinaryOpOr, dividesByZero,
			),
			col("name"),
		)

		var out exec.RowBuffer
		_, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)
		require.Equal(t, 4, out.Len())

		processor = newCursorProcessor(t,
			binary(
				&expr.UnaryExpr{Op: expr.UnaryOpIsNull, Left: col("name")},
				expr.BinaryOpAnd, dividesByZero,
			),
			col("name"),
		)

		out.Reset()
		_, err = processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)
		require.Equal(t, 0, out.Len())
	})

	t.Run("evaluates the right operand when the left is inconclusive", func(t *testing.T) {
		dividesByZero := binary(
			binary(intLit(1), expr.BinaryOpDiv, intLit(0)),
			expr.BinaryOpGt, intLit(0),
		)

		// The third row has a NULL age, so OR cannot settle on the left
		// operand and the division runs.
		processor := newCursorProcessor(t,
			binary(binary(col("age"), expr.BinaryOpGt, intLit(0)), expr.BinaryOpOr, dividesByZero),
			col("name"),
		)

		var out exec.RowBuffer
		read, err := processor.ProcessCursor(testCursor(), &out)
		require.ErrorIs(t, err, errDivisionByZero)
		require.Equal(t, int64(3), read)
		require.Equal(t, int64(3), processor.RowsProcessed())
	})

	t.Run("filter must evaluate to a boolean", func(t *testing.T) {
		processor := newCursorProcessor(t,
			binary(col("age"), expr.BinaryOpAdd, intLit(1)),
			col("name"),
		)

		var out exec.RowBuffer
		_, err := processor.ProcessCursor(testCursor(), &out)
		require.ErrorContains(t, err, "expected bool")
	})

	t.Run("rejects invalid expressions at generation", func(t *testing.T) {
		tests := []struct {
			name   string
			filter expr.Expression
		}{
			{name: "nil expression", filter: nil},
			{name: "invalid unary operation", filter: &expr.UnaryExpr{Op: expr.UnaryOpInvalid, Left: col("a")}},
			{name: "invalid binary operation", filter: &expr.BinaryExpr{Left: col("a"), Right: col("b"), Op: expr.BinaryOpInvalid}},
			{name: "match pattern is not a literal", filter: binary(col("name"), expr.BinaryOpMatchRe, col("name"))},
			{name: "match pattern is not a string", filter: binary(col("name"), expr.BinaryOpMatchRe, intLit(1))},
			{name: "match pattern does not compile", filter: binary(col("name"), expr.BinaryOpMatchRe, expr.NewLiteral("("))},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := New().GenerateCursorProcessor(tt.filter, nil)
				require.Error(t, err)
			})
		}
	})

	t.Run("rejects invalid projections at generation", func(t *testing.T) {
		_, err := New().GenerateCursorProcessor(expr.NewLiteral(true), []expr.Expression{
			col("name"),
			&expr.UnaryExpr{Op: expr.UnaryOpInvalid, Left: col("a")},
		})
		require.ErrorContains(t, err, "projection 1")
	})

	t.Run("instances are independent", func(t *testing.T) {
		artifact, err := New().GenerateCursorProcessor(
			binary(col("age"), expr.BinaryOpGt, intLit(21)),
			[]expr.Expression{col("name")},
		)
		require.NoError(t, err)

		first, err := artifact.NewCursorProcessor()
		require.NoError(t, err)
		second, err := artifact.NewCursorProcessor()
		require.NoError(t, err)

		var out exec.RowBuffer
		_, err = first.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)

		require.Equal(t, int64(4), first.RowsProcessed())
		require.Equal(t, int64(0), second.RowsProcessed())
	})

	t.Run("describes the compiled expressions", func(t *testing.T) {
		artifact, err := New().GenerateCursorProcessor(
			binary(col("age"), expr.BinaryOpGt, intLit(21)),
			[]expr.Expression{col("name"), col("age")},
		)
		require.NoError(t, err)
		require.Equal(t, "CursorProcessor{filter=GT(age, 21), projections=[name, age]}", artifact.String())

		processor, err := artifact.NewCursorProcessor()
		require.NoError(t, err)
		require.Equal(t, artifact.String(), processor.String())
	})
}
