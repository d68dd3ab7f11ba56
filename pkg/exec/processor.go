package exec

import "fmt"

// CursorProcessor evaluates a compiled filter and projection set one row at
// a time. Instances are stateful and owned by a single logical execution;
// they must not be used from more than one goroutine concurrently. Fresh
// instances are obtained from a factory, never shared.
type CursorProcessor interface {
	fmt.Stringer

	// ProcessCursor consumes cur until exhaustion, appending one output row
	// to out for every input row retained by the filter. It returns the
	// number of input rows read.
	ProcessCursor(cur Cursor, out *RowBuffer) (int64, error)

	// RowsProcessed returns the cumulative number of input rows this
	// instance has read across all ProcessCursor calls.
	RowsProcessed() int64

	// RowsEmitted returns the cumulative number of output rows this
	// instance has appended across all ProcessCursor calls.
	RowsEmitted() int64
}
