package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/expr"
)

func TestEvalUnary(t *testing.T) {
	tests := []struct {
		name    string
		op      expr.UnaryOp
		operand datatype.Literal
		want    datatype.Literal
		wantErr bool
	}{
		{name: "NOT true", op: expr.UnaryOpNot, operand: datatype.NewLiteral(true), want: datatype.NewLiteral(false)},
		{name: "NOT false", op: expr.UnaryOpNot, operand: datatype.NewLiteral(false), want: datatype.NewLiteral(true)},
		{name: "NOT null", op: expr.UnaryOpNot, operand: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},
		{name: "NOT string", op: expr.UnaryOpNot, operand: datatype.NewLiteral("x"), wantErr: true},

		{name: "NEG integer", op: expr.UnaryOpNeg, operand: datatype.NewLiteral(int64(3)), want: datatype.NewLiteral(int64(-3))},
		{name: "NEG float", op: expr.UnaryOpNeg, operand: datatype.NewLiteral(2.5), want: datatype.NewLiteral(-2.5)},
		{name: "NEG null", op: expr.UnaryOpNeg, operand: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},
		{name: "NEG bool", op: expr.UnaryOpNeg, operand: datatype.NewLiteral(true), wantErr: true},

		{name: "IS_NULL of null", op: expr.UnaryOpIsNull, operand: datatype.NewNullLiteral(), want: datatype.NewLiteral(true)},
		{name: "IS_NULL of value", op: expr.UnaryOpIsNull, operand: datatype.NewLiteral("x"), want: datatype.NewLiteral(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalUnary(tt.op, tt.operand)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvalBinary(t *testing.T) {
	tests := []struct {
		name    string
		op      expr.BinaryOp
		l, r    datatype.Literal
		want    datatype.Literal
		wantErr bool
	}{
		{name: "EQ equal strings", op: expr.BinaryOpEq, l: datatype.NewLiteral("a"), r: datatype.NewLiteral("a"), want: datatype.NewLiteral(true)},
		{name: "EQ different integers", op: expr.BinaryOpEq, l: datatype.NewLiteral(int64(1)), r: datatype.NewLiteral(int64(2)), want: datatype.NewLiteral(false)},
		{name: "EQ equal timestamps", op: expr.BinaryOpEq, l: datatype.NewTimestampLiteral(5), r: datatype.NewTimestampLiteral(5), want: datatype.NewLiteral(true)},
		{name: "EQ null operand", op: expr.BinaryOpEq, l: datatype.NewNullLiteral(), r: datatype.NewLiteral(int64(1)), want: datatype.NewNullLiteral()},
		{name: "EQ mismatched types", op: expr.BinaryOpEq, l: datatype.NewLiteral(int64(1)), r: datatype.NewLiteral(1.0), wantErr: true},
		{name: "NEQ different booleans", op: expr.BinaryOpNeq, l: datatype.NewLiteral(true), r: datatype.NewLiteral(false), want: datatype.NewLiteral(true)},

		{name: "GT integers", op: expr.BinaryOpGt, l: datatype.NewLiteral(int64(2)), r: datatype.NewLiteral(int64(1)), want: datatype.NewLiteral(true)},
		{name: "GTE timestamps", op: expr.BinaryOpGte, l: datatype.NewTimestampLiteral(5), r: datatype.NewTimestampLiteral(5), want: datatype.NewLiteral(true)},
		{name: "LT floats", op: expr.BinaryOpLt, l: datatype.NewLiteral(1.5), r: datatype.NewLiteral(2.5), want: datatype.NewLiteral(true)},
		{name: "LTE strings", op: expr.BinaryOpLte, l: datatype.NewLiteral("a"), r: datatype.NewLiteral("b"), want: datatype.NewLiteral(true)},
		{name: "GT booleans", op: expr.BinaryOpGt, l: datatype.NewLiteral(true), r: datatype.NewLiteral(false), wantErr: true},
		{name: "LT null operand", op: expr.BinaryOpLt, l: datatype.NewLiteral(int64(1)), r: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},

		{name: "AND true and true", op: expr.BinaryOpAnd, l: datatype.NewLiteral(true), r: datatype.NewLiteral(true), want: datatype.NewLiteral(true)},
		{name: "AND true and null", op: expr.BinaryOpAnd, l: datatype.NewLiteral(true), r: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},
		{name: "AND false and null", op: expr.BinaryOpAnd, l: datatype.NewLiteral(false), r: datatype.NewNullLiteral(), want: datatype.NewLiteral(false)},
		{name: "AND null and null", op: expr.BinaryOpAnd, l: datatype.NewNullLiteral(), r: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},
		{name: "AND non-boolean operand", op: expr.BinaryOpAnd, l: datatype.NewLiteral(true), r: datatype.NewLiteral("x"), wantErr: true},
		{name: "OR false and null", op: expr.BinaryOpOr, l: datatype.NewLiteral(false), r: datatype.NewNullLiteral(), want: datatype.NewNullLiteral()},
		{name: "OR true and null", op: expr.BinaryOpOr, l: datatype.NewLiteral(true), r: datatype.NewNullLiteral(), want: datatype.NewLiteral(true)},
		{name: "OR false and false", op: expr.BinaryOpOr, l: datatype.NewLiteral(false), r: datatype.NewLiteral(false), want: datatype.NewLiteral(false)},

		{name: "ADD integers", op: expr.BinaryOpAdd, l: datatype.NewLiteral(int64(2)), r: datatype.NewLiteral(int64(3)), want: datatype.NewLiteral(int64(5))},
		{name: "SUB floats", op: expr.BinaryOpSub, l: datatype.NewLiteral(2.5), r: datatype.NewLiteral(1.0), want: datatype.NewLiteral(1.5)},
		{name: "MUL integers", op: expr.BinaryOpMul, l: datatype.NewLiteral(int64(4)), r: datatype.NewLiteral(int64(5)), want: datatype.NewLiteral(int64(20))},
		{name: "DIV integers", op: expr.BinaryOpDiv, l: datatype.NewLiteral(int64(7)), r: datatype.NewLiteral(int64(2)), want: datatype.NewLiteral(int64(3))},
		{name: "DIV integer by zero", op: expr.BinaryOpDiv, l: datatype.NewLiteral(int64(7)), r: datatype.NewLiteral(int64(0)), wantErr: true},
		{name: "DIV float by zero", op: expr.BinaryOpDiv, l: datatype.NewLiteral(1.0), r: datatype.NewLiteral(0.0), want: datatype.NewLiteral(math.Inf(1))},
		{name: "MOD integers", op: expr.BinaryOpMod, l: datatype.NewLiteral(int64(7)), r: datatype.NewLiteral(int64(2)), want: datatype.NewLiteral(int64(1))},
		{name: "MOD integer by zero", op: expr.BinaryOpMod, l: datatype.NewLiteral(int64(7)), r: datatype.NewLiteral(int64(0)), wantErr: true},
		{name: "MOD floats", op: expr.BinaryOpMod, l: datatype.NewLiteral(1.5), r: datatype.NewLiteral(0.5), wantErr: true},
		{name: "ADD strings", op: expr.BinaryOpAdd, l: datatype.NewLiteral("a"), r: datatype.NewLiteral("b"), wantErr: true},
		{name: "ADD booleans", op: expr.BinaryOpAdd, l: datatype.NewLiteral(true), r: datatype.NewLiteral(false), wantErr: true},

		{name: "MATCH_STR substring", op: expr.BinaryOpMatchStr, l: datatype.NewLiteral("hello world"), r: datatype.NewLiteral("lo wo"), want: datatype.NewLiteral(true)},
		{name: "MATCH_STR no match", op: expr.BinaryOpMatchStr, l: datatype.NewLiteral("hello"), r: datatype.NewLiteral("bye"), want: datatype.NewLiteral(false)},
		{name: "MATCH_STR integers", op: expr.BinaryOpMatchStr, l: datatype.NewLiteral(int64(1)), r: datatype.NewLiteral(int64(1)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalBinary(tt.op, tt.l, tt.r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
