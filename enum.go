package flatjson

import "reflect"

// RegisterEnum teaches the reflect-driven codec how to encode and decode a
// payload-free enum: a named integer type whose values each correspond to
// one JSON string. Call it once per enum type, typically from an init
// function, before any value of that type is marshaled or unmarshaled.
//
// T must be a defined type with an underlying integer kind (the common
// shape for a Go iota-based enum). names maps each valid value to the
// string it encodes as; decoding rejects any other string.
func RegisterEnum[T ~int | ~int8 | ~int16 | ~int32 | ~int64](names map[T]string) {
	t := reflect.TypeOf(*new(T))
	p := &enumPlan{
		nameForValue: make(map[int64]string, len(names)),
		valueForName: make(map[string]int64, len(names)),
	}
	for v, name := range names {
		n := int64(v)
		p.nameForValue[n] = name
		p.valueForName[name] = n
	}
	enumRegistry.Store(t, p)
}
