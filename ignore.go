package flatjson

// ignoreSingleton is the process-wide no-op sink used to traverse and
// discard a JSON subtree the destination has no slot for: an unrecognized
// object key, or any value reachable only through one. It is a
// zero-size, stateless type, so a single shared instance can be handed to
// every caller concurrently with no synchronization — its methods perform
// no observable mutation.
type ignoreSingleton struct{}

// Ignore is the shared ignore Visitor (and, since every event it handles
// re-enters itself, also a SeqBuilder and a MapBuilder). MapBuilder.Key
// implementations should return Ignore for keys the destination type does
// not recognize.
var Ignore Visitor = ignoreSingleton{}

func (ignoreSingleton) Null() error          { return nil }
func (ignoreSingleton) Bool(bool) error      { return nil }
func (ignoreSingleton) String(string) error  { return nil }
func (ignoreSingleton) Int64(int64) error    { return nil }
func (ignoreSingleton) Uint64(uint64) error  { return nil }
func (ignoreSingleton) Float64(float64) error { return nil }

func (ignoreSingleton) Seq() (SeqBuilder, error) { return ignoreSingleton{}, nil }
func (ignoreSingleton) Map() (MapBuilder, error) { return ignoreSingleton{}, nil }

func (ignoreSingleton) Element() (Visitor, error) { return Ignore, nil }
func (ignoreSingleton) Key(string) (Visitor, error) { return Ignore, nil }
func (ignoreSingleton) Finish() error               { return nil }
