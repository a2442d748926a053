package flatjson

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripScalars(t *testing.T) {
	cases := []string{
		`null`, `true`, `false`, `0`, `-0`, `123`, `-123`,
		`18446744073709551615`, `-9223372036854775808`,
		`1.5`, `-1.5e10`, `1e300`, `"hello"`, `""`,
		`"with \"quote\" and \\ and é"`,
	}
	for _, in := range cases {
		v, err := FromText(in)
		require.NoError(t, err, in)
		out := ToText(v)
		v2, err := FromText(out)
		require.NoError(t, err, out)
		assert.True(t, v.Equal(v2), "%s -> %s", in, out)
	}
}

func TestRoundTripComposite(t *testing.T) {
	in := `{"a":[1,2,3],"b":{"c":null,"d":true},"e":"x"}`
	v, err := FromText(in)
	require.NoError(t, err)
	out := ToText(v)
	v2, err := FromText(out)
	require.NoError(t, err)
	assert.True(t, v.Equal(v2))
}

func TestDeepNestingRoundTrip(t *testing.T) {
	const depth = 100000
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteByte('[')
	}
	b.WriteString("0")
	for i := 0; i < depth; i++ {
		b.WriteByte(']')
	}
	text := b.String()

	v, err := FromText(text)
	require.NoError(t, err)
	out := ToText(v)
	assert.Equal(t, text, out)
	v.Release()
}

func TestUnknownKeysAreIgnored(t *testing.T) {
	type Point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	var p Point
	err := Unmarshal(`{"x":1,"extra":{"nested":[1,2,3]},"y":2}`, &p)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, p)
}

func TestDuplicateKeysLastWins(t *testing.T) {
	v, err := FromText(`{"a":1,"a":2}`)
	require.NoError(t, err)
	child := v.Key("a")
	n, _ := child.AsNumber()
	got, _ := n.Uint64()
	assert.Equal(t, uint64(2), got)
}

func TestNonFiniteFloatEncodesAsNull(t *testing.T) {
	v := ValueNumber(Float(posInf()))
	assert.Equal(t, "null", ToText(v))
	v2 := ValueNumber(Float(nan()))
	assert.Equal(t, "null", ToText(v2))
}

func posInf() float64 { f, _ := strconv.ParseFloat("+Inf", 64); return f }
func nan() float64    { f, _ := strconv.ParseFloat("NaN", 64); return f }

func TestLoneHighSurrogateFails(t *testing.T) {
	_, err := FromText(`"\ud800"`)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoneLowSurrogateFails(t *testing.T) {
	_, err := FromText(`"\udc00"`)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSurrogatePairDecodes(t *testing.T) {
	v, err := FromText("\"\\ud83d\\ude00\"")
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "😀", s)
}

func TestTrailingGarbageRejected(t *testing.T) {
	_, err := FromText(`1 2`)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestTrailingCommaRejected(t *testing.T) {
	_, err := FromText(`[1,2,]`)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCommentsRejected(t *testing.T) {
	_, err := FromText("// comment\n1")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestMarshalUnmarshalStruct(t *testing.T) {
	type Inner struct {
		Name string `json:"name"`
	}
	type Outer struct {
		Members []Inner        `json:"members"`
		Tags    map[string]int `json:"tags,omitempty" flatjson:"default"`
	}

	o := Outer{Members: []Inner{{Name: "a"}, {Name: "b"}}}
	text := Marshal(o)

	var got Outer
	err := Unmarshal(text, &got)
	require.NoError(t, err)
	assert.Equal(t, o.Members, got.Members)
}

func TestMissingRequiredFieldFails(t *testing.T) {
	type Pair struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	var p Pair
	err := Unmarshal(`{"x":1}`, &p)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestBareDefaultFillsMissingField(t *testing.T) {
	type Config struct {
		Name    string `json:"name"`
		Verbose bool   `json:"verbose,omitempty" flatjson:"default"`
	}
	var c Config
	require.NoError(t, Unmarshal(`{"name":"svc"}`, &c))
	assert.Equal(t, Config{Name: "svc", Verbose: false}, c)
}

func TestRegisteredDefaultFillsMissingField(t *testing.T) {
	RegisterDefault("test.defaultRetries", func() any { return 3 })

	type Task struct {
		Name    string `json:"name"`
		Retries int    `json:"retries,omitempty" flatjson:"default=test.defaultRetries"`
	}
	var t1 Task
	require.NoError(t, Unmarshal(`{"name":"build"}`, &t1))
	assert.Equal(t, Task{Name: "build", Retries: 3}, t1)

	var t2 Task
	require.NoError(t, Unmarshal(`{"name":"build","retries":9}`, &t2))
	assert.Equal(t, Task{Name: "build", Retries: 9}, t2)
}

func TestOptionalPointerFieldRoundTrip(t *testing.T) {
	type Inner struct {
		Y []string `json:"y,omitempty" flatjson:"default"`
		Z *string  `json:"z,omitempty"`
	}
	type Record struct {
		X string `json:"x"`
		N *Inner `json:"n,omitempty"`
	}

	hi := "hi"
	present := Record{X: "X", N: &Inner{Y: []string{"Y", "Y"}, Z: &hi}}
	var got Record
	require.NoError(t, Unmarshal(Marshal(present), &got))
	require.NotNil(t, got.N)
	require.NotNil(t, got.N.Z)
	assert.Equal(t, "hi", *got.N.Z)
	assert.Equal(t, []string{"Y", "Y"}, got.N.Y)

	absent := Record{X: "X"}
	var got2 Record
	require.NoError(t, Unmarshal(Marshal(absent), &got2))
	assert.Nil(t, got2.N)

	var got3 Record
	require.NoError(t, Unmarshal(`{"x":"X","n":{"y":["Y","Y"],"z":null}}`, &got3))
	require.NotNil(t, got3.N)
	assert.Nil(t, got3.N.Z)
	assert.Equal(t, []string{"Y", "Y"}, got3.N.Y)
}

type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

func init() {
	RegisterEnum(map[Color]string{
		ColorRed:   "red",
		ColorGreen: "green",
		ColorBlue:  "blue",
	})
}

func TestEnumRoundTrip(t *testing.T) {
	text := Marshal(ColorGreen)
	assert.Equal(t, `"green"`, text)

	var c Color
	require.NoError(t, Unmarshal(`"blue"`, &c))
	assert.Equal(t, ColorBlue, c)

	_, err := FromText(`"purple"`)
	assert.NoError(t, err) // plain Value decode never validates enum membership

	var c2 Color
	err = Unmarshal(`"purple"`, &c2)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPopulate(t *testing.T) {
	v, err := FromText(`{"x":1,"y":2}`)
	require.NoError(t, err)

	type Point struct {
		X int
		Y int
	}
	var p Point
	require.NoError(t, v.Populate(&p))
	assert.Equal(t, Point{X: 1, Y: 2}, p)
}
