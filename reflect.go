package flatjson

import (
	"reflect"
	"strings"
	"sync"
)

// reflect.go is the runtime substitute for a derive macro: rather than
// generating a Visitor/Serialize implementation for each user struct at
// compile time, it builds one once per reflect.Type, on first use, and
// caches it. Functionally this produces the same shape of code the static
// generator in package gen emits by hand; the two exist so callers can
// pick compile-time codegen (gen) or zero-setup reflection (this file)
// depending on how much they care about paying reflection's overhead at
// run time versus a build step.
//
// Only struct and named-integer "enum" shapes are supported, matching
// the two user-facing derive targets: records and payload-free enums (see
// enum.go). Anything else falls back to Go's own type switch over
// built-ins, since those are not part of the derived-shape contract.

type fieldPlan struct {
	name       string
	index      []int
	omitempty  bool
	typ        reflect.Type
	hasDefault bool
	defaultKey string
}

type structPlan struct {
	typ    reflect.Type
	fields []fieldPlan
	byName map[string]int
}

var structPlans sync.Map // reflect.Type -> *structPlan

func planFor(t reflect.Type) *structPlan {
	if v, ok := structPlans.Load(t); ok {
		return v.(*structPlan)
	}
	p := buildStructPlan(t)
	actual, _ := structPlans.LoadOrStore(t, p)
	return actual.(*structPlan)
}

// buildStructPlan walks a struct's exported fields once, resolving the
// wire name and options from its `json` tag, the encoding/json-compatible
// convention: `json:"name,omitempty"`, `json:"-"` to exclude a field, no
// tag falls back to the field name.
func buildStructPlan(t reflect.Type) *structPlan {
	p := &structPlan{typ: t, byName: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := f.Name
		omitempty := false
		if tag != "" {
			parts := splitTag(tag)
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		hasDefault, defaultKey := parseDefaultTag(f.Tag)
		p.byName[name] = len(p.fields)
		p.fields = append(p.fields, fieldPlan{
			name:       name,
			index:      f.Index,
			omitempty:  omitempty,
			typ:        f.Type,
			hasDefault: hasDefault,
			defaultKey: defaultKey,
		})
	}
	return p
}

// parseDefaultTag reads the `flatjson` struct tag's `default` option: bare
// `default` means the field's own zero value stands in for a missing key;
// `default=key` names a function registered with RegisterDefault to supply
// one instead. Absent the tag, the field is required: a missing key fails
// decoding at finalize time, the same as every non-pointer field in the
// grounded derive macro unless it opts out of that requirement.
func parseDefaultTag(tag reflect.StructTag) (hasDefault bool, key string) {
	v, ok := tag.Lookup("flatjson")
	if !ok {
		return false, ""
	}
	for _, opt := range splitTag(v) {
		switch {
		case opt == "default":
			hasDefault = true
		case strings.HasPrefix(opt, "default="):
			hasDefault = true
			key = strings.TrimPrefix(opt, "default=")
		}
	}
	return hasDefault, key
}

func splitTag(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	parts = append(parts, tag[start:])
	return parts
}

// Wrap adapts an arbitrary Go value as a Serialize. Generated code (see
// package gen) calls this for every field value rather than requiring
// every field's type to implement Serialize itself.
func Wrap(v any) Serialize { return serializeFor(v) }

// PlaceFor returns the Visitor that decodes into ptr, a pointer to an
// arbitrary Go value. Generated code calls this per field so a struct's
// generated Key switch does not need to hand-write a place for every
// field type.
func PlaceFor(ptr any) Visitor {
	v, err := visitorFor(ptr)
	if err != nil {
		return RejectVisitor{}
	}
	return v
}

// serializeFor wraps an arbitrary Go value as a Serialize, dispatching
// built-in kinds directly and falling back to a reflect-driven struct/enum
// adapter for everything else.
func serializeFor(v any) Serialize {
	if s, ok := v.(Serialize); ok {
		return s
	}
	return reflectSerialize{v: reflect.ValueOf(v)}
}

type reflectSerialize struct{ v reflect.Value }

func (r reflectSerialize) Begin() Fragment {
	return beginReflect(r.v)
}

func beginReflect(v reflect.Value) Fragment {
	if v.IsValid() {
		if name, ok := lookupEnumName(v); ok {
			return FragStrValue(name)
		}
	}

	switch v.Kind() {
	case reflect.Invalid:
		return FragNullValue
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return FragNullValue
		}
		return beginReflect(v.Elem())
	case reflect.Bool:
		return FragBoolValue(v.Bool())
	case reflect.String:
		return FragStrValue(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FragI64Value(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FragU64Value(v.Uint())
	case reflect.Float32, reflect.Float64:
		return FragF64Value(v.Float())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return FragNullValue
		}
		return FragSeqValue(&reflectSeqProducer{v: v})
	case reflect.Map:
		if v.IsNil() {
			return FragNullValue
		}
		keys := v.MapKeys()
		strKeys := make([]string, len(keys))
		for i, k := range keys {
			strKeys[i] = formatMapKey(k)
		}
		sortStrings(strKeys)
		return FragMapValue(&reflectMapProducer{v: v, keys: strKeys})
	case reflect.Struct:
		plan := planFor(v.Type())
		return FragMapValue(&reflectStructProducer{v: v, plan: plan})
	default:
		panic("flatjson: cannot serialize value of kind " + v.Kind().String())
	}
}

func formatMapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return reflect.ValueOf(k.Interface()).String()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

type reflectSeqProducer struct {
	v reflect.Value
	i int
}

func (p *reflectSeqProducer) Next() (Serialize, bool) {
	if p.i >= p.v.Len() {
		return nil, false
	}
	elem := p.v.Index(p.i)
	p.i++
	return reflectSerialize{v: elem}, true
}

type reflectMapProducer struct {
	v    reflect.Value
	keys []string
	i    int
}

func (p *reflectMapProducer) Next() (string, Serialize, bool) {
	if p.i >= len(p.keys) {
		return "", nil, false
	}
	k := p.keys[p.i]
	p.i++
	for _, mk := range p.v.MapKeys() {
		if formatMapKey(mk) == k {
			return k, reflectSerialize{v: p.v.MapIndex(mk)}, true
		}
	}
	return k, reflectSerialize{v: reflect.ValueOf(nil)}, true
}

type reflectStructProducer struct {
	v    reflect.Value
	plan *structPlan
	i    int
}

func (p *reflectStructProducer) Next() (string, Serialize, bool) {
	for p.i < len(p.plan.fields) {
		f := p.plan.fields[p.i]
		p.i++
		fv := p.v.FieldByIndex(f.index)
		if f.omitempty && fv.IsZero() {
			continue
		}
		return f.name, reflectSerialize{v: fv}, true
	}
	return "", nil, false
}

// visitorFor returns the decode-side Visitor for out, a pointer to the
// destination. *Value routes to the hand-written value codec; everything
// else goes through the reflect-driven struct/enum place.
func visitorFor(out any) (Visitor, error) {
	if vp, ok := out.(*Value); ok {
		return BeginValue(vp), nil
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, ErrDecode
	}
	return &reflectPlace{v: rv.Elem()}, nil
}

// reflectPlace is the reflect-driven Visitor for a single destination
// slot. It dispatches to whichever method matches the slot's kind and
// rejects everything else, the same shape as every hand-written place.
type reflectPlace struct {
	RejectVisitor
	v reflect.Value
}

func (p *reflectPlace) Null() error {
	switch p.v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		p.v.Set(reflect.Zero(p.v.Type()))
		return nil
	}
	return ErrDecode
}

// resolvePtr is the Go substitute for the grounded source's layout-compatible
// newtype reinterpretation: a pointer destination (the Box/Option analogue)
// is allocated on first write and every subsequent method operates on its
// pointee, recursing through nested pointers (**T and deeper) the same way.
func (p *reflectPlace) resolvePtr() *reflectPlace {
	if p.v.Kind() != reflect.Ptr {
		return p
	}
	if p.v.IsNil() {
		p.v.Set(reflect.New(p.v.Type().Elem()))
	}
	return &reflectPlace{v: p.v.Elem()}
}

func (p *reflectPlace) Bool(b bool) error {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Bool(b)
	}
	if p.v.Kind() != reflect.Bool {
		return ErrDecode
	}
	p.v.SetBool(b)
	return nil
}

func (p *reflectPlace) String(s string) error {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().String(s)
	}
	if setEnumByName(p.v, s) {
		return nil
	}
	if p.v.Kind() != reflect.String {
		return ErrDecode
	}
	p.v.SetString(s)
	return nil
}

func (p *reflectPlace) Int64(n int64) error {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Int64(n)
	}
	switch p.v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.v.SetInt(n)
		return nil
	case reflect.Float32, reflect.Float64:
		p.v.SetFloat(float64(n))
		return nil
	}
	return ErrDecode
}

func (p *reflectPlace) Uint64(n uint64) error {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Uint64(n)
	}
	switch p.v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		p.v.SetUint(n)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.v.SetInt(int64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		p.v.SetFloat(float64(n))
		return nil
	}
	return ErrDecode
}

func (p *reflectPlace) Float64(n float64) error {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Float64(n)
	}
	if p.v.Kind() != reflect.Float32 && p.v.Kind() != reflect.Float64 {
		return ErrDecode
	}
	p.v.SetFloat(n)
	return nil
}

func (p *reflectPlace) Seq() (SeqBuilder, error) {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Seq()
	}
	if p.v.Kind() != reflect.Slice {
		return nil, ErrDecode
	}
	if p.v.IsNil() {
		p.v.Set(reflect.MakeSlice(p.v.Type(), 0, 0))
	} else {
		p.v.SetLen(0)
	}
	return &reflectSeqBuilder{v: &p.v, elemType: p.v.Type().Elem()}, nil
}

func (p *reflectPlace) Map() (MapBuilder, error) {
	if p.v.Kind() == reflect.Ptr {
		return p.resolvePtr().Map()
	}
	switch p.v.Kind() {
	case reflect.Struct:
		plan := planFor(p.v.Type())
		return &reflectStructBuilder{v: p.v, plan: plan, seen: make([]bool, len(plan.fields))}, nil
	case reflect.Map:
		if p.v.IsNil() {
			p.v.Set(reflect.MakeMap(p.v.Type()))
		}
		return &reflectMapBuilder{v: p.v}, nil
	}
	return nil, ErrDecode
}

type reflectSeqBuilder struct {
	v        *reflect.Value
	elemType reflect.Type
	pending  reflect.Value
}

// Element returns a Visitor into a standalone addressable value rather
// than a slice slot directly, since append may reallocate; shiftAppend
// folds the previous element into the slice before handing out the next
// one, and Finish folds in the last.
func (b *reflectSeqBuilder) Element() (Visitor, error) {
	b.shiftAppend()
	b.pending = reflect.New(b.elemType).Elem()
	return &reflectPlace{v: b.pending}, nil
}

func (b *reflectSeqBuilder) Finish() error {
	b.shiftAppend()
	return nil
}

func (b *reflectSeqBuilder) shiftAppend() {
	if b.pending.IsValid() {
		b.v.Set(reflect.Append(*b.v, b.pending))
		b.pending = reflect.Value{}
	}
}

type reflectMapBuilder struct {
	v       reflect.Value
	key     string
	pending reflect.Value
	haveKey bool
}

func (b *reflectMapBuilder) shift() {
	if b.haveKey {
		b.v.SetMapIndex(reflect.ValueOf(b.key).Convert(b.v.Type().Key()), b.pending)
		b.haveKey = false
	}
}

func (b *reflectMapBuilder) Key(k string) (Visitor, error) {
	b.shift()
	b.key = k
	b.pending = reflect.New(b.v.Type().Elem()).Elem()
	b.haveKey = true
	return &reflectPlace{v: b.pending}, nil
}

func (b *reflectMapBuilder) Finish() error {
	b.shift()
	return nil
}

type reflectStructBuilder struct {
	v    reflect.Value
	plan *structPlan
	seen []bool
}

func (b *reflectStructBuilder) Key(k string) (Visitor, error) {
	idx, ok := b.plan.byName[k]
	if !ok {
		return Ignore, nil
	}
	b.seen[idx] = true
	f := b.plan.fields[idx]
	return &reflectPlace{v: b.v.FieldByIndex(f.index)}, nil
}

// Finish drains every field slot: a field the wire never mentioned fails
// unless something supplies a default for it. Its own zero value already
// stands in if the field is a pointer (always has an implicit default) or
// carries a bare `flatjson:"default"` tag; a `flatjson:"default=key"` tag
// instead pulls its value from the function RegisterDefault associated
// with key. Anything else absent is a type-shape error.
func (b *reflectStructBuilder) Finish() error {
	for i, f := range b.plan.fields {
		if b.seen[i] {
			continue
		}
		if f.typ.Kind() == reflect.Ptr {
			continue
		}
		if !f.hasDefault {
			return ErrDecode
		}
		if f.defaultKey == "" {
			continue
		}
		fn, ok := lookupDefault(f.defaultKey)
		if !ok {
			return ErrDecode
		}
		dv := reflect.ValueOf(fn())
		target := b.v.FieldByIndex(f.index)
		if !dv.IsValid() || !dv.Type().AssignableTo(target.Type()) {
			return ErrDecode
		}
		target.Set(dv)
	}
	return nil
}

// enumRegistry maps each registered enum type to its payload-free variant
// table; see enum.go for the registration entry point.
var enumRegistry sync.Map // reflect.Type -> *enumPlan

type enumPlan struct {
	nameForValue map[int64]string
	valueForName map[string]int64
}

func lookupEnumName(v reflect.Value) (string, bool) {
	t := v.Type()
	p, ok := enumRegistry.Load(t)
	if !ok {
		return "", false
	}
	ep := p.(*enumPlan)
	name, ok := ep.nameForValue[v.Int()]
	return name, ok
}

func setEnumByName(v reflect.Value, name string) bool {
	t := v.Type()
	p, ok := enumRegistry.Load(t)
	if !ok {
		return false
	}
	ep := p.(*enumPlan)
	n, ok := ep.valueForName[name]
	if !ok {
		return false
	}
	v.SetInt(n)
	return true
}
