// Package expr provides immutable, structurally comparable expression trees
// describing scalar computations (filter predicates and projections) over
// named input columns.
package expr

import (
	"fmt"

	"github.com/vireodb/vireo/pkg/datatype"
)

// ExpressionType represents the type of expression node.
type ExpressionType uint32

const (
	ExprTypeInvalid ExpressionType = iota

	ExprTypeUnary
	ExprTypeBinary
	ExprTypeLiteral
	ExprTypeColumn
)

// String returns the string representation of the expression type.
func (t ExpressionType) String() string {
	switch t {
	case ExprTypeUnary:
		return "UnaryExpression"
	case ExprTypeBinary:
		return "BinaryExpression"
	case ExprTypeLiteral:
		return "LiteralExpression"
	case ExprTypeColumn:
		return "ColumnExpression"
	default:
		return "invalid"
	}
}

// Expression is the common interface for all expression nodes. Expressions
// are immutable once constructed and safe to share across goroutines.
type Expression interface {
	fmt.Stringer

	// Type returns the type of the expression node.
	Type() ExpressionType
	isExpr()
}

// UnaryExpr applies a unary operator to a single operand expression.
type UnaryExpr struct {
	// Left is the expression being operated on
	Left Expression
	// Op is the unary operator to apply to the expression
	Op UnaryOp
}

func (*UnaryExpr) isExpr() {}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Op, e.Left)
}

// Type returns the type of the expression.
func (e *UnaryExpr) Type() ExpressionType {
	return ExprTypeUnary
}

// BinaryExpr applies a binary operator to a left and right operand
// expression.
type BinaryExpr struct {
	Left, Right Expression
	Op          BinaryOp
}

func (*BinaryExpr) isExpr() {}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.Left, e.Right)
}

// Type returns the type of the expression.
func (e *BinaryExpr) Type() ExpressionType {
	return ExprTypeBinary
}

// LiteralExpr holds a scalar value known ahead of evaluation.
type LiteralExpr struct {
	datatype.Literal
}

func (*LiteralExpr) isExpr() {}

// Type returns the type of the expression.
func (e *LiteralExpr) Type() ExpressionType {
	return ExprTypeLiteral
}

// ValueType returns the data type of the literal.
func (e *LiteralExpr) ValueType() datatype.DataType {
	return e.Literal.Type()
}

// NewLiteral creates a new literal expression from a Go value.
func NewLiteral[T datatype.LiteralType](value T) *LiteralExpr {
	return &LiteralExpr{Literal: datatype.NewLiteral(value)}
}

// NewNullLiteral creates a new literal expression holding the NULL value.
func NewNullLiteral() *LiteralExpr {
	return &LiteralExpr{Literal: datatype.NewNullLiteral()}
}

// NewTimestampLiteral creates a new literal expression from a nanosecond
// UNIX timestamp.
func NewTimestampLiteral(ns int64) *LiteralExpr {
	return &LiteralExpr{Literal: datatype.NewTimestampLiteral(ns)}
}

// ColumnExpr references an input column by name.
type ColumnExpr struct {
	Name string
}

func (*ColumnExpr) isExpr() {}

func (e *ColumnExpr) String() string {
	return e.Name
}

// Type returns the type of the expression.
func (e *ColumnExpr) Type() ExpressionType {
	return ExprTypeColumn
}

// NewColumn creates a new column reference expression.
func NewColumn(name string) *ColumnExpr {
	return &ColumnExpr{Name: name}
}

// Walk traverses the expression tree in pre-order, calling fn for each node.
// If fn returns false, the children of the node are not visited.
func Walk(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e := e.(type) {
	case *UnaryExpr:
		Walk(e.Left, fn)
	case *BinaryExpr:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	}
}
