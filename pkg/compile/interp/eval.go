package interp

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/expr"
)

var errDivisionByZero = errors.New("division by zero")

func validUnaryOp(op expr.UnaryOp) bool {
	switch op {
	case expr.UnaryOpNot, expr.UnaryOpNeg, expr.UnaryOpIsNull:
		return true
	}
	return false
}

func validBinaryOp(op expr.BinaryOp) bool {
	switch op {
	case expr.BinaryOpEq, expr.BinaryOpNeq,
		expr.BinaryOpGt, expr.BinaryOpGte, expr.BinaryOpLt, expr.BinaryOpLte,
		expr.BinaryOpAnd, expr.BinaryOpOr,
		expr.BinaryOpAdd, expr.BinaryOpSub, expr.BinaryOpMul, expr.BinaryOpDiv, expr.BinaryOpMod,
		expr.BinaryOpMatchStr:
		return true
	}
	return false
}

// evalUnary applies op to one already-evaluated operand. IS_NULL is total;
// every other operator propagates NULL operands.
func evalUnary(op expr.UnaryOp, v datatype.Literal) (datatype.Literal, error) {
	if op == expr.UnaryOpIsNull {
		return datatype.NewLiteral(v.IsNull()), nil
	}
	if v.IsNull() {
		return datatype.NewNullLiteral(), nil
	}

	switch op {
	case expr.UnaryOpNot:
		if v.Type() != datatype.Bool {
			return datatype.Literal{}, fmt.Errorf("%s requires a %s operand, got %s", op, datatype.Bool, v.Type())
		}
		return datatype.NewLiteral(!v.Bool()), nil

	case expr.UnaryOpNeg:
		switch v.Type() {
		case datatype.Integer:
			return datatype.NewLiteral(-v.Int()), nil
		case datatype.Float:
			return datatype.NewLiteral(-v.Float()), nil
		}
		return datatype.Literal{}, fmt.Errorf("%s requires a numeric operand, got %s", op, v.Type())
	}
	return datatype.Literal{}, fmt.Errorf("unsupported unary operation %s", op)
}

// evalBinary applies op to two already-evaluated operands. AND and OR use
// three-valued logic; every other operator propagates NULL operands and
// requires both operands to share one type.
func evalBinary(op expr.BinaryOp, l, r datatype.Literal) (datatype.Literal, error) {
	switch op {
	case expr.BinaryOpAnd:
		return kleeneAnd(l, r)
	case expr.BinaryOpOr:
		return kleeneOr(l, r)
	}

	if l.IsNull() || r.IsNull() {
		return datatype.NewNullLiteral(), nil
	}
	if l.Type() != r.Type() {
		return datatype.Literal{}, fmt.Errorf("%s operand types do not match: %s and %s", op, l.Type(), r.Type())
	}

	switch op {
	case expr.BinaryOpEq:
		return datatype.NewLiteral(l.Equal(r)), nil
	case expr.BinaryOpNeq:
		return datatype.NewLiteral(!l.Equal(r)), nil

	case expr.BinaryOpGt, expr.BinaryOpGte, expr.BinaryOpLt, expr.BinaryOpLte:
		return compareOrdered(op, l, r)

	case expr.BinaryOpAdd, expr.BinaryOpSub, expr.BinaryOpMul, expr.BinaryOpDiv, expr.BinaryOpMod:
		return arithmetic(op, l, r)

	case expr.BinaryOpMatchStr:
		if l.Type() != datatype.String {
			return datatype.Literal{}, fmt.Errorf("%s requires %s operands, got %s", op, datatype.String, l.Type())
		}
		return datatype.NewLiteral(strings.Contains(l.Str(), r.Str())), nil
	}
	return datatype.Literal{}, fmt.Errorf("unsupported binary operation %s", op)
}

func compareOrdered(op expr.BinaryOp, l, r datatype.Literal) (datatype.Literal, error) {
	var c int
	switch l.Type() {
	case datatype.String:
		c = cmp.Compare(l.Str(), r.Str())
	case datatype.Integer:
		c = cmp.Compare(l.Int(), r.Int())
	case datatype.Float:
		c = cmp.Compare(l.Float(), r.Float())
	case datatype.Timestamp:
		c = cmp.Compare(l.Ts(), r.Ts())
	default:
		return datatype.Literal{}, fmt.Errorf("%s is not supported on %s values", op, l.Type())
	}

	switch op {
	case expr.BinaryOpGt:
		return datatype.NewLiteral(c > 0), nil
	case expr.BinaryOpGte:
		return datatype.NewLiteral(c >= 0), nil
	case expr.BinaryOpLt:
		return datatype.NewLiteral(c < 0), nil
	default:
		return datatype.NewLiteral(c <= 0), nil
	}
}

func arithmetic(op expr.BinaryOp, l, r datatype.Literal) (datatype.Literal, error) {
	switch l.Type() {
	case datatype.Integer:
		return integerArithmetic(op, l.Int(), r.Int())
	case datatype.Float:
		return floatArithmetic(op, l.Float(), r.Float())
	}
	return datatype.Literal{}, fmt.Errorf("%s is not supported on %s values", op, l.Type())
}

func integerArithmetic(op expr.BinaryOp, l, r int64) (datatype.Literal, error) {
	switch op {
	case expr.BinaryOpAdd:
		return datatype.NewLiteral(l + r), nil
	case expr.BinaryOpSub:
		return datatype.NewLiteral(l - r), nil
	case expr.BinaryOpMul:
		return datatype.NewLiteral(l * r), nil
	case expr.BinaryOpDiv:
		if r == 0 {
			return datatype.Literal{}, errDivisionByZero
		}
		return datatype.NewLiteral(l / r), nil
	default:
		if r == 0 {
			return datatype.Literal{}, errDivisionByZero
		}
		return datatype.NewLiteral(l % r), nil
	}
}

func floatArithmetic(op expr.BinaryOp, l, r float64) (datatype.Literal, error) {
	switch op {
	case expr.BinaryOpAdd:
		return datatype.NewLiteral(l + r), nil
	case expr.BinaryOpSub:
		return datatype.NewLiteral(l - r), nil
	case expr.BinaryOpMul:
		return datatype.NewLiteral(l * r), nil
	case expr.BinaryOpDiv:
		return datatype.NewLiteral(l / r), nil
	default:
		return datatype.Literal{}, fmt.Errorf("%s is not supported on %s values", op, datatype.Float)
	}
}

// truth reduces a logical operand to its three-valued form.
func truth(op expr.BinaryOp, v datatype.Literal) (value, null bool, err error) {
	if v.IsNull() {
		return false, true, nil
	}
	if v.Type() != datatype.Bool {
		return false, false, fmt.Errorf("%s requires %s operands, got %s", op, datatype.Bool, v.Type())
	}
	return v.Bool(), false, nil
}

// kleeneAnd is three-valued AND: FALSE wins over NULL.
func kleeneAnd(l, r datatype.Literal) (datatype.Literal, error) {
	lv, lnull, err := truth(expr.BinaryOpAnd, l)
	if err != nil {
		return datatype.Literal{}, err
	}
	rv, rnull, err := truth(expr.BinaryOpAnd, r)
	if err != nil {
		return datatype.Literal{}, err
	}

	if (!lnull && !lv) || (!rnull && !rv) {
		return datatype.NewLiteral(false), nil
	}
	if lnull || rnull {
		return datatype.NewNullLiteral(), nil
	}
	return datatype.NewLiteral(true), nil
}

// kleeneOr is three-valued OR: TRUE wins over NULL.
func kleeneOr(l, r datatype.Literal) (datatype.Literal, error) {
	lv, lnull, err := truth(expr.BinaryOpOr, l)
	if err != nil {
		return datatype.Literal{}, err
	}
	rv, rnull, err := truth(expr.BinaryOpOr, r)
	if err != nil {
		return datatype.Literal{}, err
	}

	if (!lnull && lv) || (!rnull && rv) {
		return datatype.NewLiteral(true), nil
	}
	if lnull || rnull {
		return datatype.NewNullLiteral(), nil
	}
	return datatype.NewLiteral(false), nil
}

// compileMatchPattern extracts and compiles the pattern of a MATCH_RE
// expression. Patterns must be string literals so that compilation happens
// once at generation time.
func compileMatchPattern(right expr.Expression) (*regexp.Regexp, error) {
	lit, ok := right.(*expr.LiteralExpr)
	if !ok || lit.ValueType() != datatype.String {
		return nil, fmt.Errorf("%s requires a string literal pattern, got %s", expr.BinaryOpMatchRe, right)
	}
	re, err := regexp.Compile(lit.Str())
	if err != nil {
		return nil, fmt.Errorf("%s pattern: %w", expr.BinaryOpMatchRe, err)
	}
	return re, nil
}

// matchString applies a precompiled pattern to one operand.
func matchString(re *regexp.Regexp, v datatype.Literal) (datatype.Literal, error) {
	if v.IsNull() {
		return datatype.NewNullLiteral(), nil
	}
	if v.Type() != datatype.String {
		return datatype.Literal{}, fmt.Errorf("%s requires a %s operand, got %s", expr.BinaryOpMatchRe, datatype.String, v.Type())
	}
	return datatype.NewLiteral(re.MatchString(v.Str())), nil
}
