package datatype

const typeInvalid = "invalid"

// DataType represents the type of a scalar value.
type DataType uint32

const (
	Null      DataType = iota // NULL value, carries no data
	Bool                      // boolean value
	String                    // string value
	Integer                   // signed 64bit integer value
	Float                     // 64bit floating point value
	Timestamp                 // nanosecond UNIX timestamp, stored as signed 64bit integer
)

// String returns the string representation of the data type.
func (t DataType) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Timestamp:
		return "timestamp"
	default:
		return typeInvalid
	}
}
