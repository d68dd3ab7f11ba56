package celgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/expr"
)

// renderCEL renders an expression tree as CEL source. Operands are always
// parenthesized, so operator precedence never depends on the tree shape.
func renderCEL(e expr.Expression) (string, error) {
	switch e := e.(type) {
	case *expr.LiteralExpr:
		return renderLiteral(e.Literal)

	case *expr.ColumnExpr:
		return e.Name, nil

	case *expr.UnaryExpr:
		operand, err := renderCEL(e.Left)
		if err != nil {
			return "", err
		}
		switch e.Op {
		case expr.UnaryOpNot:
			return "!(" + operand + ")", nil
		case expr.UnaryOpNeg:
			return "-(" + operand + ")", nil
		case expr.UnaryOpIsNull:
			return "(" + operand + ") == null", nil
		}
		return "", fmt.Errorf("unsupported unary operation %s", e.Op)

	case *expr.BinaryExpr:
		return renderBinary(e)
	}
	return "", fmt.Errorf("unknown expression: %v", e)
}

var celBinaryOps = map[expr.BinaryOp]string{
	expr.BinaryOpEq:  "==",
	expr.BinaryOpNeq: "!=",
	expr.BinaryOpGt:  ">",
	expr.BinaryOpGte: ">=",
	expr.BinaryOpLt:  "<",
	expr.BinaryOpLte: "<=",
	expr.BinaryOpAnd: "&&",
	expr.BinaryOpOr:  "||",
	expr.BinaryOpAdd: "+",
	expr.BinaryOpSub: "-",
	expr.BinaryOpMul: "*",
	expr.BinaryOpDiv: "/",
	expr.BinaryOpMod: "%",
}

func renderBinary(e *expr.BinaryExpr) (string, error) {
	left, err := renderCEL(e.Left)
	if err != nil {
		return "", err
	}

	switch e.Op {
	case expr.BinaryOpMatchStr:
		right, err := renderCEL(e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s).contains(%s)", left, right), nil

	// The pattern must be a string literal: it is embedded in the source
	// as a literal argument to matches, where the checker validates it.
	case expr.BinaryOpMatchRe:
		lit, ok := e.Right.(*expr.LiteralExpr)
		if !ok || lit.ValueType() != datatype.String {
			return "", fmt.Errorf("%s requires a string literal pattern, got %s", e.Op, e.Right)
		}
		pattern, err := renderLiteral(lit.Literal)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s).matches(%s)", left, pattern), nil
	}

	op, ok := celBinaryOps[e.Op]
	if !ok {
		return "", fmt.Errorf("unsupported binary operation %s", e.Op)
	}
	right, err := renderCEL(e.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s) %s (%s)", left, op, right), nil
}

func renderLiteral(v datatype.Literal) (string, error) {
	switch v.Type() {
	case datatype.Null:
		return "null", nil
	case datatype.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case datatype.String:
		return strconv.Quote(v.Str()), nil
	case datatype.Integer:
		return strconv.FormatInt(v.Int(), 10), nil
	case datatype.Float:
		return renderFloat(v.Float())
	case datatype.Timestamp:
		return fmt.Sprintf("timestamp(%q)", time.Unix(0, v.Ts()).UTC().Format(time.RFC3339Nano)), nil
	}
	return "", fmt.Errorf("unsupported literal type %s", v.Type())
}

func renderFloat(f float64) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("float literal %v has no CEL representation", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// A bare integer form would parse as a CEL int, not a double.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}
