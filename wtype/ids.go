package wtype

// TypeID is the one-byte wire identifier of a field's value type.
type TypeID uint8

// Built-in type ids. These values are stable on the wire and must never be
// renumbered; new built-in types are added with unused ids, never by
// reusing a retired one.
const (
	Indicator TypeID = 0 // zero-payload "present but null" marker

	Boolean TypeID = 1
	Byte    TypeID = 2
	Short   TypeID = 3 // int16
	Int     TypeID = 4 // int32
	Long    TypeID = 5 // int64

	Float  TypeID = 10 // float32
	Double TypeID = 11 // float64

	String  TypeID = 14
	FudgeMsg TypeID = 15 // nested sub-message

	VarByteArray TypeID = 16 // variable-length byte[]

	FixedByteArray4   TypeID = 17
	FixedByteArray8   TypeID = 18
	FixedByteArray16  TypeID = 19
	FixedByteArray20  TypeID = 20
	FixedByteArray32  TypeID = 21
	FixedByteArray64  TypeID = 22
	FixedByteArray128 TypeID = 23
	FixedByteArray256 TypeID = 24
	FixedByteArray512 TypeID = 25

	ShortArray  TypeID = 26 // []int16
	IntArray    TypeID = 27 // []int32
	LongArray   TypeID = 28 // []int64
	FloatArray  TypeID = 29 // []float32
	DoubleArray TypeID = 30 // []float64

	DateTime TypeID = 31 // 14-byte fixed payload, see wtype/datetime.go
)

// fixedByteArraySizes maps each fixed byte-array type id to its payload
// length in bytes.
var fixedByteArraySizes = map[TypeID]int{
	FixedByteArray4:   4,
	FixedByteArray8:   8,
	FixedByteArray16:  16,
	FixedByteArray20:  20,
	FixedByteArray32:  32,
	FixedByteArray64:  64,
	FixedByteArray128: 128,
	FixedByteArray256: 256,
	FixedByteArray512: 512,
}

// Kind classifies the shape of a type's value, used by callers (e.g. the
// JSON mapper and the object-graph bean surrogate) that need to pick a
// default field type for a native Go value without switching on every id.
type Kind uint8

const (
	KindIndicator Kind = iota
	KindScalar
	KindString
	KindBytes
	KindMessage
	KindArray
	KindDateTime
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindIndicator:
		return "Indicator"
	case KindScalar:
		return "Scalar"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindMessage:
		return "Message"
	case KindArray:
		return "Array"
	case KindDateTime:
		return "DateTime"
	default:
		return "Unknown"
	}
}

func (t TypeID) String() string {
	switch t {
	case Indicator:
		return "indicator"
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case FudgeMsg:
		return "message"
	case VarByteArray:
		return "byte[]"
	case ShortArray:
		return "short[]"
	case IntArray:
		return "int[]"
	case LongArray:
		return "long[]"
	case FloatArray:
		return "float[]"
	case DoubleArray:
		return "double[]"
	case DateTime:
		return "dateTime"
	default:
		if n, ok := fixedByteArraySizes[t]; ok {
			return "byte[" + itoa(n) + "]"
		}

		return "unknown"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
