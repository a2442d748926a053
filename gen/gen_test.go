package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `package widgets

// flatjson:generate
type Widget struct {
	ID       string   `+"`json:\"id\"`"+`
	Tags     []string `+"`json:\"tags,omitempty\" flatjson:\"default\"`"+`
	Internal string   `+"`json:\"-\"`"+`
	Count    int
	Owner    *string  `+"`json:\"owner,omitempty\"`"+`
	Priority int      `+"`json:\"priority,omitempty\" flatjson:\"default=widgets.defaultPriority\"`"+`
}

type NotAnnotated struct {
	X int
}
`

func TestParseFindsAnnotatedStructsOnly(t *testing.T) {
	pkg, err := Parse("widgets.go", []byte(sample))
	require.NoError(t, err)
	require.Len(t, pkg.Records, 1)
	assert.Equal(t, "Widget", pkg.Records[0].Name)

	fields := pkg.Records[0].Fields
	require.Len(t, fields, 5)
	assert.Equal(t, "id", fields[0].WireName)
	assert.Equal(t, "tags", fields[1].WireName)
	assert.True(t, fields[1].OmitEmpty)
	assert.True(t, fields[1].HasDefault)
	assert.Empty(t, fields[1].DefaultKey)
	assert.Equal(t, "Count", fields[2].WireName)
	assert.False(t, fields[2].HasDefault)

	assert.Equal(t, "owner", fields[3].WireName)
	assert.True(t, fields[3].IsPointer)
	assert.Equal(t, "*string", fields[3].GoType)

	assert.Equal(t, "priority", fields[4].WireName)
	assert.True(t, fields[4].HasDefault)
	assert.Equal(t, "widgets.defaultPriority", fields[4].DefaultKey)
}

func TestGenerateProducesCompilableShape(t *testing.T) {
	pkg, err := Parse("widgets.go", []byte(sample))
	require.NoError(t, err)

	out, err := Generate(pkg)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "package widgets")
	assert.Contains(t, s, "func (v Widget) Begin() flatjson.Fragment")
	assert.Contains(t, s, "func BeginWidget(out *Widget) flatjson.Visitor")
	assert.Contains(t, s, `"id"`)
	assert.Contains(t, s, `"tags"`)
	assert.NotContains(t, s, `"-"`)

	// Required field (no default, not a pointer) fails Finish when absent.
	assert.Contains(t, s, "return flatjson.ErrDecode")
	// Bare default leaves the zero value in place; no assignment emitted.
	assert.Contains(t, s, "Tags defaults to its zero value")
	// Keyed default calls the named function directly, no runtime registry.
	assert.Contains(t, s, "b.out.Priority = widgets.defaultPriority()")
	// Pointer field's own nil is its default; Finish never errors for it.
	assert.Contains(t, s, "Owner is a pointer")
}
