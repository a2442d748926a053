package flatjson

// deserialize.go is the iterative decode driver: it owns an explicit heap
// stack of in-progress Seq/Map builders that stands in for the call-stack
// recursion an ordinary recursive-descent decoder would use, so decoding a
// value nested a million levels deep costs a million heap-allocated stack
// slices, never a million Go call frames.

// frame is one entry of the driver's explicit stack: either an in-progress
// array (seq != nil) or an in-progress object (m != nil), never both.
type frame struct {
	seq SeqBuilder
	m   MapBuilder
}

type deserializer struct {
	tok   tokenizer
	stack []frame
}

// FromText decodes text into a fresh Value. Input nested arbitrarily
// deeply decodes without recursing on the call stack.
func FromText(text string) (Value, error) {
	var out Value
	if err := decodeInto(text, BeginValue(&out)); err != nil {
		return ValueNull, err
	}
	return out, nil
}

// Unmarshal decodes text into out, which must be a non-nil pointer.
// Passing *Value decodes into the dynamic value tree; every other
// destination, including a type that also has generated code, is decoded
// through the reflect-driven place in reflect.go.
func Unmarshal(text string, out any) error {
	v, err := visitorFor(out)
	if err != nil {
		return err
	}
	return decodeInto(text, v)
}

func decodeInto(text string, root Visitor) error {
	d := deserializer{tok: tokenizer{input: []byte(text)}}
	if err := d.run(root); err != nil {
		return err
	}
	if _, ok := d.tok.parseWhitespace(); ok {
		return ErrDecode
	}
	return nil
}

// run is the single driver loop. cur is the Visitor that will receive the
// very next token; every iteration either satisfies cur with a terminal
// value and then walks back up closed frames (the "ascend" loop), or opens
// a new composite frame and sets cur to its first child, looping around to
// read that child's token. Neither loop ever calls itself or run again, so
// stack depth stays flat regardless of input nesting depth.
func (d *deserializer) run(cur Visitor) error {
	for {
		ev, err := d.tok.event()
		if err != nil {
			return err
		}

		var finishErr error
		opened := false

		switch ev.kind {
		case evNull:
			finishErr = cur.Null()
		case evBool:
			finishErr = cur.Bool(ev.b)
		case evStr:
			finishErr = cur.String(ev.s)
		case evNonnegative:
			finishErr = cur.Uint64(ev.u)
		case evNegative:
			finishErr = cur.Int64(ev.i)
		case evFloat:
			finishErr = cur.Float64(ev.f)

		case evSeqStart:
			sb, err := cur.Seq()
			if err != nil {
				return err
			}
			c, ok := d.tok.parseWhitespace()
			if !ok {
				return ErrDecode
			}
			if c == ']' {
				d.tok.bump()
				finishErr = sb.Finish()
			} else {
				next, err := sb.Element()
				if err != nil {
					return err
				}
				d.stack = append(d.stack, frame{seq: sb})
				cur = next
				opened = true
			}

		case evMapStart:
			mb, err := cur.Map()
			if err != nil {
				return err
			}
			c, ok := d.tok.parseWhitespace()
			if !ok {
				return ErrDecode
			}
			if c == '}' {
				d.tok.bump()
				finishErr = mb.Finish()
			} else {
				key, err := d.parseKey()
				if err != nil {
					return err
				}
				next, err := mb.Key(key)
				if err != nil {
					return err
				}
				d.stack = append(d.stack, frame{m: mb})
				cur = next
				opened = true
			}

		default:
			return ErrDecode
		}

		if opened {
			continue
		}
		if finishErr != nil {
			return finishErr
		}

		// Ascend: the value just completed may close out any number of
		// enclosing frames (a run of consecutive "]"/"}" with no
		// intervening comma), then either find a sibling to decode next
		// (setting cur and breaking back to the outer loop) or, once the
		// stack empties, report the whole decode finished.
		next, done, err := d.ascend()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		cur = next
	}
}

// parseKey consumes a JSON string token and the following ':'.
func (d *deserializer) parseKey() (string, error) {
	c, ok := d.tok.parseWhitespace()
	if !ok || c != '"' {
		return "", ErrDecode
	}
	d.tok.bump()
	key, err := d.tok.parseStr()
	if err != nil {
		return "", err
	}
	c, ok = d.tok.parseWhitespace()
	if !ok || c != ':' {
		return "", ErrDecode
	}
	d.tok.bump()
	return key, nil
}

// ascend walks up the stack after a value completes, looking for the next
// thing to decode: a sibling element/value (returned as next, done=false),
// or confirmation that every open frame has closed (done=true).
func (d *deserializer) ascend() (next Visitor, done bool, err error) {
	for {
		if len(d.stack) == 0 {
			return nil, true, nil
		}
		top := &d.stack[len(d.stack)-1]

		c, ok := d.tok.parseWhitespace()
		if !ok {
			return nil, false, ErrDecode
		}

		if top.seq != nil {
			switch c {
			case ',':
				d.tok.bump()
				v, err := top.seq.Element()
				if err != nil {
					return nil, false, err
				}
				return v, false, nil
			case ']':
				d.tok.bump()
				sb := top.seq
				d.stack = d.stack[:len(d.stack)-1]
				if err := sb.Finish(); err != nil {
					return nil, false, err
				}
				continue
			default:
				return nil, false, ErrDecode
			}
		}

		switch c {
		case ',':
			d.tok.bump()
			key, err := d.parseKey()
			if err != nil {
				return nil, false, err
			}
			v, err := top.m.Key(key)
			if err != nil {
				return nil, false, err
			}
			return v, false, nil
		case '}':
			d.tok.bump()
			mb := top.m
			d.stack = d.stack[:len(d.stack)-1]
			if err := mb.Finish(); err != nil {
				return nil, false, err
			}
			continue
		default:
			return nil, false, ErrDecode
		}
	}
}
