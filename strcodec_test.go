package flatjson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeStringInto(t *testing.T) {
	var b strings.Builder
	escapeStringInto(&b, "a\"b\\c\nd\te")
	assert.Equal(t, `"a\"b\\c\nd\te"`, b.String())
}

func TestEscapeStringControlByte(t *testing.T) {
	var b strings.Builder
	controlByte := string([]byte{1})
	escapeStringInto(&b, controlByte)
	assert.Equal(t, "\"\\u0001\"", b.String())
}

func TestHexNibble(t *testing.T) {
	v, ok := hexNibble('a')
	assert.True(t, ok)
	assert.Equal(t, uint16(10), v)

	_, ok = hexNibble('g')
	assert.False(t, ok)
}
