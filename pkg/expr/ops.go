package expr

import "fmt"

// UnaryOp denotes the kind of unary operation to apply to an expression.
type UnaryOp int

// Recognized values of [UnaryOp].
const (
	// UnaryOpInvalid indicates an invalid unary operation.
	UnaryOpInvalid UnaryOp = iota

	UnaryOpNot    // Logical NOT operation (!).
	UnaryOpNeg    // Numeric negation operation (-).
	UnaryOpIsNull // NULL test operation.
)

var unaryOpStrings = map[UnaryOp]string{
	UnaryOpInvalid: "invalid",

	UnaryOpNot:    "NOT",
	UnaryOpNeg:    "NEG",
	UnaryOpIsNull: "IS_NULL",
}

// String returns the string representation of the UnaryOp.
func (op UnaryOp) String() string {
	if s, ok := unaryOpStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}

// BinaryOp denotes the kind of binary operation to apply to a pair of
// expressions.
type BinaryOp int

// Recognized values of [BinaryOp].
const (
	// BinaryOpInvalid indicates an invalid binary operation.
	BinaryOpInvalid BinaryOp = iota

	BinaryOpEq  // Equality comparison (==).
	BinaryOpNeq // Inequality comparison (!=).
	BinaryOpGt  // Greater than comparison (>).
	BinaryOpGte // Greater than or equal comparison (>=).
	BinaryOpLt  // Less than comparison (<).
	BinaryOpLte // Less than or equal comparison (<=).
	BinaryOpAnd // Logical AND operation (&&).
	BinaryOpOr  // Logical OR operation (||).

	BinaryOpAdd // Addition operation (+).
	BinaryOpSub // Subtraction operation (-).
	BinaryOpMul // Multiplication operation (*).
	BinaryOpDiv // Division operation (/).
	BinaryOpMod // Modulo operation (%).

	BinaryOpMatchStr // Substring matching operation.
	BinaryOpMatchRe  // Regular expression matching operation.
)

var binaryOpStrings = map[BinaryOp]string{
	BinaryOpInvalid: "invalid",

	BinaryOpEq:  "EQ",
	BinaryOpNeq: "NEQ",
	BinaryOpGt:  "GT",
	BinaryOpGte: "GTE",
	BinaryOpLt:  "LT",
	BinaryOpLte: "LTE",
	BinaryOpAnd: "AND",
	BinaryOpOr:  "OR",

	BinaryOpAdd: "ADD",
	BinaryOpSub: "SUB",
	BinaryOpMul: "MUL",
	BinaryOpDiv: "DIV",
	BinaryOpMod: "MOD",

	BinaryOpMatchStr: "MATCH_STR",
	BinaryOpMatchRe:  "MATCH_RE",
}

// String returns a human-readable representation of the binary operation.
func (op BinaryOp) String() string {
	if s, ok := binaryOpStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}
