package flatjson

// Visitor is the polymorphic decode sink: the driver in deserialize.go
// delivers one call per JSON token to whichever Visitor currently sits on
// top of its stack, without ever knowing the destination type.
//
// A concrete Visitor overrides only the methods that make sense for its
// destination type. RejectVisitor supplies a "reject everything" default;
// embed it and override selectively, the same shape as every hand-written
// Visitor impl in value_codec.go and every struct/enum impl the reflect and
// gen packages produce.
type Visitor interface {
	Null() error
	Bool(b bool) error
	String(s string) error
	Int64(n int64) error
	Uint64(n uint64) error
	Float64(n float64) error
	Seq() (SeqBuilder, error)
	Map() (MapBuilder, error)
}

// SeqBuilder hands out a Visitor for each array element in turn.
type SeqBuilder interface {
	// Element returns the Visitor that will receive the next array
	// element's events.
	Element() (Visitor, error)
	// Finish is called once the closing ']' has been consumed.
	Finish() error
}

// MapBuilder hands out a Visitor for each object value, keyed by its
// already-decoded string key.
type MapBuilder interface {
	// Key returns the Visitor that will receive the events for the value
	// associated with k. Unknown keys should return Ignore, not an error.
	Key(k string) (Visitor, error)
	// Finish is called once the closing '}' has been consumed.
	Finish() error
}

// RejectVisitor implements Visitor by rejecting every event. Embed it in a
// concrete place type and override only the methods your destination type
// supports; Go interfaces carry no default method bodies of their own, so
// this struct stands in for that role.
type RejectVisitor struct{}

func (RejectVisitor) Null() error                  { return ErrDecode }
func (RejectVisitor) Bool(bool) error               { return ErrDecode }
func (RejectVisitor) String(string) error           { return ErrDecode }
func (RejectVisitor) Int64(int64) error             { return ErrDecode }
func (RejectVisitor) Uint64(uint64) error           { return ErrDecode }
func (RejectVisitor) Float64(float64) error         { return ErrDecode }
func (RejectVisitor) Seq() (SeqBuilder, error)       { return nil, ErrDecode }
func (RejectVisitor) Map() (MapBuilder, error)       { return nil, ErrDecode }
