package flatjson

import "errors"

// ErrDecode is the single error value returned for every decode failure:
// an unexpected token, a malformed escape or number, a missing required
// field, an unrecognized enum variant, trailing garbage after the root
// value, anything. There is exactly one error kind and no cause,
// location, or message is attached to it.
//
// Encoding never fails; there is no corresponding encode error.
var ErrDecode = errors.New("flatjson: decode error")
