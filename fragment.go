package flatjson

// FragmentKind tags which field of a Fragment is populated.
type FragmentKind int

// The eight shapes a value can present for one step of encoding.
const (
	FragNull FragmentKind = iota
	FragBool
	FragStr
	FragU64
	FragI64
	FragF64
	FragSeq
	FragMap
)

// Fragment is the ephemeral shape a Serialize value presents for one step
// of encoding: either a terminal token or a lazy Seq/Map producer.
type Fragment struct {
	Kind FragmentKind
	B    bool
	Str  string
	U64  uint64
	I64  int64
	F64  float64
	Seq  SeqProducer
	Map  MapProducer
}

// FragNullValue is the shared Null fragment.
var FragNullValue = Fragment{Kind: FragNull}

// FragBoolValue builds a Bool fragment.
func FragBoolValue(b bool) Fragment { return Fragment{Kind: FragBool, B: b} }

// FragStrValue builds a Str fragment.
func FragStrValue(s string) Fragment { return Fragment{Kind: FragStr, Str: s} }

// FragU64Value builds a U64 fragment.
func FragU64Value(n uint64) Fragment { return Fragment{Kind: FragU64, U64: n} }

// FragI64Value builds an I64 fragment.
func FragI64Value(n int64) Fragment { return Fragment{Kind: FragI64, I64: n} }

// FragF64Value builds an F64 fragment. Non-finite inputs are legal here;
// the serializer emits them as the literal null.
func FragF64Value(n float64) Fragment { return Fragment{Kind: FragF64, F64: n} }

// FragSeqValue builds a Seq fragment from a producer.
func FragSeqValue(p SeqProducer) Fragment { return Fragment{Kind: FragSeq, Seq: p} }

// FragMapValue builds a Map fragment from a producer.
func FragMapValue(p MapProducer) Fragment { return Fragment{Kind: FragMap, Map: p} }

// Serialize is implemented by any value that can present itself as a
// Fragment. Serialization is infallible: a type either produces a Fragment
// or (for types that cannot reasonably be encoded, e.g. a channel reached
// through reflection) panics; there is no error return anywhere in this
// interface.
type Serialize interface {
	Begin() Fragment
}

// SeqProducer is a stateful iterator handed out once per Seq fragment; it
// yields each element in turn until exhausted.
type SeqProducer interface {
	// Next returns the next element, or ok=false once exhausted.
	Next() (elem Serialize, ok bool)
}

// MapProducer is a stateful iterator handed out once per Map fragment; it
// yields each key/value pair in turn until exhausted, in the order the
// wire format must use (declaration order for derived records, ascending
// key order for the dynamic Object).
type MapProducer interface {
	// Next returns the next entry, or ok=false once exhausted.
	Next() (key string, val Serialize, ok bool)
}
