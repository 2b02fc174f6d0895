package bitmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/format"
)

func roundTrip(t *testing.T, bits []bool) []bool {
	t.Helper()
	enc := Encode(bits)
	got, err := Decode(enc.Mode, enc.Payload, len(bits))
	require.NoError(t, err)

	return got
}

func TestEncode_AllFalseIsEmptyRaw(t *testing.T) {
	bits := make([]bool, 8)
	enc := Encode(bits)

	assert.Equal(t, format.BitmaskRaw, enc.Mode)
	assert.Empty(t, enc.Payload)
}

func TestEncode_SingleDeviationRoundTrips(t *testing.T) {
	bits := []bool{false, true}
	assert.Equal(t, bits, roundTrip(t, bits))
}

func TestEncode_SparseWinsOnFewSetBits(t *testing.T) {
	bits := make([]bool, 400)
	bits[7] = true
	bits[200] = true

	enc := Encode(bits)
	assert.Equal(t, format.BitmaskSparse, enc.Mode)
	assert.Equal(t, bits, roundTrip(t, bits))
}

func TestEncode_RLEWinsOnLongUniformRuns(t *testing.T) {
	bits := make([]bool, 400)
	for i := 150; i < 350; i++ {
		bits[i] = true
	}

	enc := Encode(bits)
	assert.Equal(t, format.BitmaskRLE, enc.Mode)
	assert.Equal(t, bits, roundTrip(t, bits))
}

func TestEncode_RawWinsOnDenseRandomish(t *testing.T) {
	bits := []bool{true, false, true, true, false, true, false, false}
	enc := Encode(bits)
	assert.Equal(t, format.BitmaskRaw, enc.Mode)
	assert.Equal(t, bits, roundTrip(t, bits))
}

func TestRoundTrip_AllTrue(t *testing.T) {
	bits := make([]bool, 37)
	for i := range bits {
		bits[i] = true
	}
	assert.Equal(t, bits, roundTrip(t, bits))
}

func TestRoundTrip_EmptyMask(t *testing.T) {
	got := roundTrip(t, nil)
	assert.Empty(t, got)
}

func TestDecode_UnknownMode(t *testing.T) {
	_, err := Decode(format.BitmaskMode(99), nil, 4)
	assert.Error(t, err)
}

func TestDecode_SparseTruncated(t *testing.T) {
	_, err := Decode(format.BitmaskSparse, []byte{5}, 4)
	assert.Error(t, err)
}

func TestDecode_RLETruncatedRun(t *testing.T) {
	// runLen larger than rowCount. 20 set bits pack to 3 raw bytes but only 2 RLE
	// bytes (runs 0 and 20), so RLE wins; at 10 bits both are 2 bytes and raw wins the tie.
	bits := make([]bool, 20)
	for i := range bits {
		bits[i] = true
	}
	enc := Encode(bits)
	if enc.Mode != format.BitmaskRLE {
		t.Skip("only meaningful when RLE wins")
	}
	_, err := Decode(format.BitmaskRLE, enc.Payload, 3)
	assert.Error(t, err)
}
