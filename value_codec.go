package flatjson

// This file is Value's Serialize/Visitor implementation: the hand-written
// counterpart, for the dynamic value tree itself, of what the reflect and
// gen packages produce for user-declared record/enum shapes.

// Begin implements Serialize for Value.
func (v Value) Begin() Fragment {
	switch v.typ {
	case TypeNull:
		return FragNullValue
	case TypeBool:
		return FragBoolValue(v.b)
	case TypeString:
		return FragStrValue(v.s)
	case TypeNumber:
		switch v.num.kind {
		case KindUint64:
			return FragU64Value(v.num.u)
		case KindInt64:
			return FragI64Value(v.num.i)
		default:
			return FragF64Value(v.num.f)
		}
	case TypeArray:
		return FragSeqValue(&arrayProducer{items: v.arr.inner})
	case TypeObject:
		return FragMapValue(&objectProducer{obj: v.obj, keys: v.obj.Keys()})
	default:
		return FragNullValue
	}
}

type arrayProducer struct {
	items []Value
	i     int
}

func (p *arrayProducer) Next() (Serialize, bool) {
	if p.i >= len(p.items) {
		return nil, false
	}
	v := p.items[p.i]
	p.i++
	return v, true
}

type objectProducer struct {
	obj  Object
	keys []string
	i    int
}

func (p *objectProducer) Next() (string, Serialize, bool) {
	if p.i >= len(p.keys) {
		return "", nil, false
	}
	k := p.keys[p.i]
	p.i++
	v, _ := p.obj.Get(k)
	return k, v, true
}

// valuePlace is the Visitor that writes a decoded token into *out as a
// Value. Every Deserialize-able type in this codebase ultimately bottoms
// out in either this place (for *Value destinations) or a reflect/gen
// place (for everything else).
type valuePlace struct {
	RejectVisitor
	out *Value
}

// BeginValue returns the Visitor that decodes into *out, for use as the
// root visitor of a decode call targeting a *Value.
func BeginValue(out *Value) Visitor {
	return &valuePlace{out: out}
}

func (p *valuePlace) Null() error { *p.out = ValueNull; return nil }

func (p *valuePlace) Bool(b bool) error { *p.out = ValueBool(b); return nil }

func (p *valuePlace) String(s string) error { *p.out = ValueString(s); return nil }

func (p *valuePlace) Int64(n int64) error { *p.out = ValueNumber(Int(n)); return nil }

func (p *valuePlace) Uint64(n uint64) error { *p.out = ValueNumber(Uint(n)); return nil }

func (p *valuePlace) Float64(n float64) error { *p.out = ValueNumber(Float(n)); return nil }

func (p *valuePlace) Seq() (SeqBuilder, error) {
	return &valueArrayBuilder{out: p.out, arr: NewArray()}, nil
}

func (p *valuePlace) Map() (MapBuilder, error) {
	return &valueObjectBuilder{out: p.out, obj: NewObject()}, nil
}

type valueArrayBuilder struct {
	out         *Value
	arr         Array
	pending     Value
	havePending bool
}

func (b *valueArrayBuilder) shift() {
	if b.havePending {
		b.arr = b.arr.Append(b.pending)
		b.havePending = false
	}
}

func (b *valueArrayBuilder) Element() (Visitor, error) {
	b.shift()
	b.pending = ValueNull
	b.havePending = true
	return &valuePlace{out: &b.pending}, nil
}

func (b *valueArrayBuilder) Finish() error {
	b.shift()
	*b.out = ValueArray(b.arr)
	return nil
}

type valueObjectBuilder struct {
	out     *Value
	obj     Object
	key     string
	pending Value
	haveKey bool
}

func (b *valueObjectBuilder) shift() {
	if b.haveKey {
		b.obj.Set(b.key, b.pending)
		b.haveKey = false
	}
}

func (b *valueObjectBuilder) Key(k string) (Visitor, error) {
	b.shift()
	b.key = k
	b.pending = ValueNull
	b.haveKey = true
	return &valuePlace{out: &b.pending}, nil
}

func (b *valueObjectBuilder) Finish() error {
	b.shift()
	*b.out = ValueObject(b.obj)
	return nil
}
