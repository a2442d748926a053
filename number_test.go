package flatjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerBoundaryValues(t *testing.T) {
	v, err := FromText(`18446744073709551615`)
	require.NoError(t, err)
	n, _ := v.AsNumber()
	assert.Equal(t, KindUint64, n.Kind())
	u, _ := n.Uint64()
	assert.Equal(t, uint64(18446744073709551615), u)

	v, err = FromText(`-9223372036854775808`)
	require.NoError(t, err)
	n, _ = v.AsNumber()
	assert.Equal(t, KindInt64, n.Kind())
	i, _ := n.Int64()
	assert.Equal(t, int64(-9223372036854775808), i)
}

func TestIntegerOverflowFallsBackToFloat(t *testing.T) {
	v, err := FromText(`99999999999999999999999999999`)
	require.NoError(t, err)
	n, _ := v.AsNumber()
	assert.Equal(t, KindFloat64, n.Kind())
}

func TestLeadingZeroRejected(t *testing.T) {
	_, err := FromText(`01`)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestNegativeZeroIsFloat(t *testing.T) {
	v, err := FromText(`-0`)
	require.NoError(t, err)
	n, _ := v.AsNumber()
	assert.Equal(t, KindFloat64, n.Kind())
	assert.Equal(t, float64(0), n.Float64())
}

func TestExponentNotation(t *testing.T) {
	v, err := FromText(`1.5e2`)
	require.NoError(t, err)
	n, _ := v.AsNumber()
	assert.Equal(t, 150.0, n.Float64())
}

func TestU64MulAddOverflows(t *testing.T) {
	assert.False(t, u64MulAddOverflows(0, 9))
	assert.True(t, u64MulAddOverflows(^uint64(0)/10+1, 0))
}
