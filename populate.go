package flatjson

import "github.com/mitchellh/mapstructure"

// populate.go is a convenience layered on top of the core decode path: a
// caller that already has a Value (perhaps built by inspecting a larger
// document via Key/Index) can fill a loosely related Go struct from it
// without hand-writing a Visitor for that struct.

// Native projects v into plain Go values: map[string]any for objects,
// []any for arrays, and the natural Go type for every scalar. The
// projection is shallow in the sense that it still walks the whole tree,
// but it owns no references back into v afterward.
func (v Value) Native() any {
	switch v.typ {
	case TypeNull:
		return nil
	case TypeBool:
		return v.b
	case TypeString:
		return v.s
	case TypeNumber:
		switch v.num.kind {
		case KindUint64:
			return v.num.u
		case KindInt64:
			return v.num.i
		default:
			return v.num.f
		}
	case TypeArray:
		out := make([]any, v.arr.Len())
		for i, e := range v.arr.Slice() {
			out[i] = e.Native()
		}
		return out
	case TypeObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			child, _ := v.obj.Get(k)
			out[k] = child.Native()
		}
		return out
	default:
		return nil
	}
}

// Populate decodes v into dst, a pointer to an arbitrary Go struct/map/
// slice, via mapstructure's reflection-based decoder rather than this
// package's own Visitor protocol. It is meant for one-off population from
// a Value already obtained by other means; round-tripping through
// Unmarshal is preferred when dst's shape is known up front, since that
// path carries this package's own stack-safety guarantees all the way
// through decode.
func (v Value) Populate(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return ErrDecode
	}
	if err := dec.Decode(v.Native()); err != nil {
		return ErrDecode
	}
	return nil
}
