package flatjson

import "sync"

// defaultRegistry maps a `default=key` struct-tag value to the function
// that supplies a field's value when its key is absent from the wire. See
// RegisterDefault and the record finalizer in reflect.go.
var defaultRegistry sync.Map // string -> func() any

// RegisterDefault associates key, as named by a `default=key` entry in a
// field's `flatjson` struct tag, with the function that supplies the
// field's value when decoding finds the wire object missing that key.
//
// Static codegen (package gen) instead emits a direct call to the named
// function, since it has compile-time access to the identifier; the
// reflection path only has the tag's string at run time, so it needs this
// registry to resolve one.
func RegisterDefault(key string, fn func() any) {
	defaultRegistry.Store(key, fn)
}

func lookupDefault(key string) (func() any, bool) {
	v, ok := defaultRegistry.Load(key)
	if !ok {
		return nil, false
	}
	return v.(func() any), true
}
