// Package exec defines the execution contracts compiled artifacts are
// instantiated against: row-at-a-time processing over a [Cursor] and
// batch processing over Arrow records.
package exec

import (
	"slices"

	"github.com/vireodb/vireo/pkg/datatype"
)

// Cursor is a forward-only iterator over rows. Implementations are not
// required to be safe for concurrent use.
type Cursor interface {
	// Columns returns the names of the cursor's columns. The result is
	// fixed for the lifetime of the cursor.
	Columns() []string
	// Next advances the cursor to the next row. It returns false once the
	// cursor is exhausted or iteration failed.
	Next() bool
	// Value returns the value of column i for the current row. It is only
	// valid after a call to Next that returned true.
	Value(i int) datatype.Literal
	// Err returns the first error encountered during iteration, if any.
	Err() error
}

// SliceCursor is an in-memory [Cursor] over a slice of rows.
type SliceCursor struct {
	columns []string
	rows    [][]datatype.Literal
	pos     int
}

var _ Cursor = (*SliceCursor)(nil)

// NewSliceCursor creates a cursor iterating over the given rows. Each row
// must have one value per column.
func NewSliceCursor(columns []string, rows [][]datatype.Literal) *SliceCursor {
	return &SliceCursor{columns: columns, rows: rows, pos: -1}
}

// Columns implements Cursor.
func (c *SliceCursor) Columns() []string { return c.columns }

// Next implements Cursor.
func (c *SliceCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

// Value implements Cursor.
func (c *SliceCursor) Value(i int) datatype.Literal { return c.rows[c.pos][i] }

// Err implements Cursor.
func (c *SliceCursor) Err() error { return nil }

// RowBuffer collects output rows produced by a [CursorProcessor].
type RowBuffer struct {
	rows [][]datatype.Literal
}

// Append adds a copy of row to the buffer. Appending a copy allows callers
// to reuse their scratch slice across rows.
func (b *RowBuffer) Append(row []datatype.Literal) {
	b.rows = append(b.rows, slices.Clone(row))
}

// Len returns the number of buffered rows.
func (b *RowBuffer) Len() int { return len(b.rows) }

// Row returns the i-th buffered row.
func (b *RowBuffer) Row(i int) []datatype.Literal { return b.rows[i] }

// Rows returns all buffered rows.
func (b *RowBuffer) Rows() [][]datatype.Literal { return b.rows }

// Reset discards all buffered rows, retaining allocated capacity.
func (b *RowBuffer) Reset() { b.rows = b.rows[:0] }
