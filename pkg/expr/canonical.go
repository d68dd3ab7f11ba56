package expr

import (
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether two expressions are structurally identical. Two nil
// expressions are equal.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *UnaryExpr:
		other, ok := b.(*UnaryExpr)
		return ok && a.Op == other.Op && Equal(a.Left, other.Left)
	case *BinaryExpr:
		other, ok := b.(*BinaryExpr)
		return ok && a.Op == other.Op && Equal(a.Left, other.Left) && Equal(a.Right, other.Right)
	case *LiteralExpr:
		other, ok := b.(*LiteralExpr)
		return ok && a.Literal.Equal(other.Literal)
	case *ColumnExpr:
		other, ok := b.(*ColumnExpr)
		return ok && a.Name == other.Name
	}
	return false
}

// Canonical returns an injective textual encoding of the expression:
// two expressions produce the same encoding iff they are structurally
// identical. Unlike String, the encoding quotes column names and tags
// literal types so that distinct trees never collide.
func Canonical(e Expression) string {
	var sb strings.Builder
	writeCanonical(&sb, e)
	return sb.String()
}

// Hash returns a structural hash of the expression, computed over the
// canonical encoding.
func Hash(e Expression) uint64 {
	d := xxhash.New()
	writeCanonical(d, e)
	return d.Sum64()
}

func writeCanonical(w io.StringWriter, e Expression) {
	switch e := e.(type) {
	case nil:
		w.WriteString("none")
	case *UnaryExpr:
		w.WriteString(e.Op.String())
		w.WriteString("(")
		writeCanonical(w, e.Left)
		w.WriteString(")")
	case *BinaryExpr:
		w.WriteString(e.Op.String())
		w.WriteString("(")
		writeCanonical(w, e.Left)
		w.WriteString(",")
		writeCanonical(w, e.Right)
		w.WriteString(")")
	case *LiteralExpr:
		w.WriteString("lit:")
		w.WriteString(e.ValueType().String())
		w.WriteString(":")
		w.WriteString(e.Literal.String())
	case *ColumnExpr:
		w.WriteString("col:")
		w.WriteString(strconv.Quote(e.Name))
	default:
		w.WriteString("invalid")
	}
}
