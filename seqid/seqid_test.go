package seqid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ids := []string{"seq1", "seq2", "seq3"}
	data := Encode(ids)

	got, consumed, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
	assert.Equal(t, len(data), consumed)
}

func TestEncodeDecode_EmptyList(t *testing.T) {
	data := Encode(nil)
	got, _, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeDecode_ManyRepetitiveIDsCompresses(t *testing.T) {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = "organism_sample_identifier_repeated"
	}
	data := Encode(ids)
	plain := marshalPlain(ids)

	// with this much repetition, the encoder should have picked a compressed mode.
	assert.Less(t, len(data), len(plain))

	got, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestDecode_BadMagic(t *testing.T) {
	_, _, err := Decode([]byte("XXXX\x02\x01\x00"))
	assert.Error(t, err)
}

func TestDecode_Truncated(t *testing.T) {
	_, _, err := Decode([]byte("ECID"))
	assert.Error(t, err)
}

func TestDecode_LegacyVersionPlainOnly(t *testing.T) {
	plain := marshalPlain([]string{"a", "b"})
	data := append([]byte(Magic), versionLegacy)
	data = append(data, byteLenPrefix(len(plain))...)
	data = append(data, plain...)

	got, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDecode_UnknownVersion(t *testing.T) {
	data := append([]byte(Magic), 99)
	data = append(data, byteLenPrefix(0)...)

	_, _, err := Decode(data)
	assert.Error(t, err)
}

// byteLenPrefix is a tiny varint helper local to the legacy-format test so it doesn't
// need to import internal/varint just to build one test fixture.
func byteLenPrefix(n int) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)

			continue
		}
		out = append(out, b)

		return out
	}
}
