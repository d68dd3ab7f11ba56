// Package arrowtest provides helpers for constructing and inspecting Arrow
// records in tests.
package arrowtest

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Rows is a slice of rows, where each row maps a column name to its value.
// A nil value denotes NULL. Timestamps are represented as [arrow.Timestamp].
type Rows []Row

// Row maps column names to values.
type Row = map[string]any

// Record builds an Arrow record holding the rows, with one column per
// schema field. Values must match the field type; missing or nil values
// become NULL. The caller assumes ownership of the returned record.
func (r Rows) Record(mem memory.Allocator, schema *arrow.Schema) arrow.Record {
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, field := range schema.Fields() {
		fb := builder.Field(i)
		for _, row := range r {
			value, ok := row[field.Name]
			if !ok || value == nil {
				fb.AppendNull()
				continue
			}
			switch b := fb.(type) {
			case *array.BooleanBuilder:
				b.Append(value.(bool))
			case *array.StringBuilder:
				b.Append(value.(string))
			case *array.Int64Builder:
				b.Append(value.(int64))
			case *array.Float64Builder:
				b.Append(value.(float64))
			case *array.TimestampBuilder:
				b.Append(value.(arrow.Timestamp))
			default:
				panic(fmt.Sprintf("arrowtest: unsupported builder type %T", fb))
			}
		}
	}

	return builder.NewRecord()
}

// RecordRows converts a record back into Rows for comparison in tests.
func RecordRows(rec arrow.Record) (Rows, error) {
	rows := make(Rows, rec.NumRows())
	for i := range rows {
		rows[i] = make(Row, rec.NumCols())
	}

	for j, field := range rec.Schema().Fields() {
		col := rec.Column(j)
		for i := 0; i < int(rec.NumRows()); i++ {
			if col.IsNull(i) {
				rows[i][field.Name] = nil
				continue
			}
			switch arr := col.(type) {
			case *array.Boolean:
				rows[i][field.Name] = arr.Value(i)
			case *array.String:
				rows[i][field.Name] = arr.Value(i)
			case *array.Int64:
				rows[i][field.Name] = arr.Value(i)
			case *array.Float64:
				rows[i][field.Name] = arr.Value(i)
			case *array.Timestamp:
				rows[i][field.Name] = arr.Value(i)
			default:
				return nil, fmt.Errorf("arrowtest: unsupported array type %T", col)
			}
		}
	}

	return rows, nil
}
