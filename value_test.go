package flatjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	arr := NewArray().Append(ValueNumber(Uint(1))).Append(ValueNumber(Uint(2)))
	obj := NewObject()
	obj.Set("a", ValueBool(true))

	v := ValueArray(arr)
	assert.Equal(t, TypeArray, v.Type())
	got, ok := v.AsArray()
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())

	o := ValueObject(obj)
	assert.Equal(t, TypeObject, o.Type())
	child, ok := o.AsObject()
	require.True(t, ok)
	assert.Equal(t, 1, child.Len())
}

func TestValueFluentNavigation(t *testing.T) {
	inner := NewObject()
	inner.Set("name", ValueString("ivy"))
	members := NewArray().Append(ValueObject(inner))
	root := NewObject()
	root.Set("members", ValueArray(members))
	v := ValueObject(root)

	assert.Equal(t, "ivy", v.Key("members").Index(0).Key("name").mustString(t))
	assert.Equal(t, TypeNull, v.Key("missing").Type())
	assert.Equal(t, TypeNull, v.Key("members").Index(99).Type())
	assert.Equal(t, TypeNull, ValueNull.Index(0).Type())
}

func (v Value) mustString(t *testing.T) string {
	t.Helper()
	s, ok := v.AsString()
	require.True(t, ok)
	return s
}

func TestValueEqualAndClone(t *testing.T) {
	a := NewArray().Append(ValueString("x")).Append(ValueNumber(Int(-5)))
	obj := NewObject()
	obj.Set("k", ValueArray(a))
	v := ValueObject(obj)

	clone := v.Clone()
	assert.True(t, v.Equal(clone))

	clonedObj, _ := clone.AsObject()
	clonedObj.Set("k", ValueBool(false))
	assert.False(t, v.Equal(clone))
}

func TestNumberEquality(t *testing.T) {
	assert.True(t, Uint(5).equal(Int(5)))
	assert.False(t, Uint(5).equal(Float(5)))
	assert.False(t, Int(-1).equal(Uint(1)))
}

func TestNumberCoercions(t *testing.T) {
	n := Uint(1 << 63)
	_, ok := n.Int64()
	assert.False(t, ok)

	n2 := Int(-1)
	_, ok = n2.Uint64()
	assert.False(t, ok)

	assert.Equal(t, float64(1<<63), n.Float64())
}

func TestReleaseDeepNesting(t *testing.T) {
	const depth = 100000
	v := ValueNull
	for i := 0; i < depth; i++ {
		v = ValueArray(NewArray().Append(v))
	}
	assert.NotPanics(t, func() { v.Release() })
}
