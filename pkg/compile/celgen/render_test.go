package celgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vireodb/vireo/pkg/expr"
)

func TestRenderCEL(t *testing.T) {
	tests := []struct {
		name string
		expr expr.Expression
		want string
	}{
		{name: "column", expr: col("age"), want: "age"},
		{name: "integer literal", expr: intLit(21), want: "21"},
		{name: "float literal", expr: expr.NewLiteral(1.5), want: "1.5"},
		{name: "whole float literal", expr: expr.NewLiteral(2.0), want: "2.0"},
		{name: "bool literal", expr: expr.NewLiteral(true), want: "true"},
		{name: "string literal", expr: expr.NewLiteral(`say "hi"`), want: `"say \"hi\""`},
		{name: "null literal", expr: expr.NewNullLiteral(), want: "null"},
		{name: "timestamp literal", expr: expr.NewTimestampLiteral(1500000000), want: `timestamp("1970-01-01T00:00:01.5Z")`},

		{name: "logical not", expr: &expr.UnaryExpr{Op: expr.UnaryOpNot, Left: col("ok")}, want: "!(ok)"},
		{name: "negation", expr: &expr.UnaryExpr{Op: expr.UnaryOpNeg, Left: col("age")}, want: "-(age)"},
		{name: "null test", expr: &expr.UnaryExpr{Op: expr.UnaryOpIsNull, Left: col("age")}, want: "(age) == null"},

		{name: "comparison", expr: binary(col("age"), expr.BinaryOpGt, intLit(21)), want: "(age) > (21)"},
		{name: "arithmetic", expr: binary(col("age"), expr.BinaryOpMod, intLit(2)), want: "(age) % (2)"},
		{
			name: "nested logic",
			expr: binary(
				binary(col("age"), expr.BinaryOpGte, intLit(18)),
				expr.BinaryOpAnd,
				&expr.UnaryExpr{Op: expr.UnaryOpNot, Left: col("banned")},
			),
			want: "((age) >= (18)) && (!(banned))",
		},
		{name: "substring match", expr: binary(col("name"), expr.BinaryOpMatchStr, expr.NewLiteral("li")), want: `(name).contains("li")`},
		{name: "regex match", expr: binary(col("name"), expr.BinaryOpMatchRe, expr.NewLiteral(`^a\d+`)), want: `(name).matches("^a\\d+")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderCEL(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderCELErrors(t *testing.T) {
	tests := []struct {
		name   string
		expr   expr.Expression
		errMsg string
	}{
		{name: "nil expression", expr: nil, errMsg: "unknown expression"},
		{name: "invalid unary operation", expr: &expr.UnaryExpr{Op: expr.UnaryOpInvalid, Left: col("age")}, errMsg: "unsupported unary operation"},
		{name: "invalid binary operation", expr: binary(col("age"), expr.BinaryOpInvalid, intLit(1)), errMsg: "unsupported binary operation"},
		{name: "regex pattern is a column", expr: binary(col("name"), expr.BinaryOpMatchRe, col("pattern")), errMsg: "string literal pattern"},
		{name: "regex pattern is not a string", expr: binary(col("name"), expr.BinaryOpMatchRe, intLit(1)), errMsg: "string literal pattern"},
		{name: "infinite float", expr: expr.NewLiteral(math.Inf(1)), errMsg: "no CEL representation"},
		{name: "NaN float", expr: expr.NewLiteral(math.NaN()), errMsg: "no CEL representation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderCEL(tt.expr)
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}
