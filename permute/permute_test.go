package permute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	perm := []int{3, 1, 0, 2}
	data := Encode(perm)

	got, rest, found, err := TryDecode(data)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, perm, got)
	assert.Empty(t, rest)
}

func TestEncodeDecode_LeavesTrailingBytes(t *testing.T) {
	perm := []int{1, 0}
	data := append(Encode(perm), []byte("trailing")...)

	got, rest, found, err := TryDecode(data)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, perm, got)
	assert.Equal(t, []byte("trailing"), rest)
}

func TestTryDecode_NotPresent(t *testing.T) {
	data := []byte("ECIDsomething")
	got, rest, found, err := TryDecode(data)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.Equal(t, data, rest)
}

func TestEncodeDecode_WideIndices(t *testing.T) {
	perm := make([]int, 300)
	for i := range perm {
		perm[i] = 299 - i
	}
	data := Encode(perm)

	got, _, found, err := TryDecode(data)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, perm, got)
}

func TestEncodeDecode_LargeReversedPermutation(t *testing.T) {
	perm := make([]int, 500)
	for i := range perm {
		perm[i] = len(perm) - 1 - i
	}
	data := Encode(perm)

	got, _, found, err := TryDecode(data)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, perm, got)
}

func TestTryDecode_Truncated(t *testing.T) {
	_, _, found, err := TryDecode([]byte("ECPE"))
	assert.True(t, found)
	assert.Error(t, err)
}
