package flatjson

import "strings"

// serialize.go is the iterative encode driver: the mirror image of
// deserialize.go. Instead of a call-stack-recursive "write this value,
// recursing into children" function, it keeps an explicit stack of
// in-progress Seq/Map producers and writes output a comma/bracket at a
// time, so a value nested a million levels deep encodes with a million
// heap stack entries rather than a million Go call frames.

type encFrame struct {
	seq   SeqProducer
	m     MapProducer
	first bool
}

// ToText encodes v as JSON text.
func ToText(v Serialize) string {
	var out strings.Builder
	encodeInto(&out, v)
	return out.String()
}

// Marshal encodes an arbitrary Go value as JSON text via the reflect-driven
// Serialize adapter. Passing a Value or any type with a generated/
// hand-written Begin method is equivalent to ToText.
func Marshal(v any) string {
	return ToText(serializeFor(v))
}

func encodeInto(out *strings.Builder, root Serialize) {
	var stack []encFrame
	cur := root

	for {
		if cur != nil {
			frag := cur.Begin()
			switch frag.Kind {
			case FragNull:
				out.WriteString("null")
			case FragBool:
				if frag.B {
					out.WriteString("true")
				} else {
					out.WriteString("false")
				}
			case FragStr:
				escapeStringInto(out, frag.Str)
			case FragU64:
				writeUint(out, frag.U64)
			case FragI64:
				writeInt(out, frag.I64)
			case FragF64:
				writeFloat(out, frag.F64)
			case FragSeq:
				out.WriteByte('[')
				stack = append(stack, encFrame{seq: frag.Seq, first: true})
				cur = nil
				advance(&stack, out, &cur)
				continue
			case FragMap:
				out.WriteByte('{')
				stack = append(stack, encFrame{m: frag.Map, first: true})
				cur = nil
				advance(&stack, out, &cur)
				continue
			}
		}

		if !advance(&stack, out, &cur) {
			return
		}
	}
}

// advance is called once the value currently held by cur (if any, nil the
// first time after opening a fresh composite) has been fully written. It
// asks the top frame for its next element/entry; if the top frame is
// exhausted it writes the closing bracket and pops, repeating up the
// stack, until either a sibling is found (cur is set, returns true to keep
// looping) or the stack empties (returns false, encoding complete).
func advance(stack *[]encFrame, out *strings.Builder, cur *Serialize) bool {
	for {
		if len(*stack) == 0 {
			return false
		}
		top := &(*stack)[len(*stack)-1]

		if top.seq != nil {
			elem, ok := top.seq.Next()
			if ok {
				if !top.first {
					out.WriteByte(',')
				}
				top.first = false
				*cur = elem
				return true
			}
			out.WriteByte(']')
			*stack = (*stack)[:len(*stack)-1]
			continue
		}

		key, val, ok := top.m.Next()
		if ok {
			if !top.first {
				out.WriteByte(',')
			}
			top.first = false
			escapeStringInto(out, key)
			out.WriteByte(':')
			*cur = val
			return true
		}
		out.WriteByte('}')
		*stack = (*stack)[:len(*stack)-1]
	}
}
