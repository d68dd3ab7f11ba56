package datatype

import "github.com/apache/arrow-go/v18/arrow"

var toArrow = map[DataType]arrow.DataType{
	Null:      arrow.Null,
	Bool:      arrow.FixedWidthTypes.Boolean,
	String:    arrow.BinaryTypes.String,
	Integer:   arrow.PrimitiveTypes.Int64,
	Float:     arrow.PrimitiveTypes.Float64,
	Timestamp: arrow.FixedWidthTypes.Timestamp_ns,
}

// ArrowType returns the Arrow representation of the data type.
func (t DataType) ArrowType() arrow.DataType {
	at, ok := toArrow[t]
	if !ok {
		return arrow.Null
	}
	return at
}

// FromArrowType returns the data type for an Arrow type. The second return
// value is false if the Arrow type has no scalar representation.
func FromArrowType(t arrow.DataType) (DataType, bool) {
	switch t.ID() {
	case arrow.NULL:
		return Null, true
	case arrow.BOOL:
		return Bool, true
	case arrow.STRING:
		return String, true
	case arrow.INT64:
		return Integer, true
	case arrow.FLOAT64:
		return Float, true
	case arrow.TIMESTAMP:
		return Timestamp, true
	}
	return Null, false
}
