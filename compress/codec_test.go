package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/format"
)

func roundTrip(t *testing.T, codec Codec, data []byte) []byte {
	t.Helper()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)

	return compressed
}

func TestContestCandidates_RoundTrip(t *testing.T) {
	data := []byte("ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGT")

	for _, encoding := range []format.PayloadEncoding{format.PayloadRaw, format.PayloadZlib, format.PayloadZstd, format.PayloadXz} {
		t.Run(encoding.String(), func(t *testing.T) {
			codec, err := CreateCodec(encoding, "payload")
			require.NoError(t, err)
			roundTrip(t, codec, data)
		})
	}
}

func TestContestCandidates_EmptyInput(t *testing.T) {
	for _, encoding := range []format.PayloadEncoding{format.PayloadRaw, format.PayloadZlib, format.PayloadZstd, format.PayloadXz} {
		t.Run(encoding.String(), func(t *testing.T) {
			codec, err := CreateCodec(encoding, "payload")
			require.NoError(t, err)
			roundTrip(t, codec, nil)
		})
	}
}

func TestCreateCodec_Unknown(t *testing.T) {
	_, err := CreateCodec(format.PayloadEncoding(99), "payload")
	require.Error(t, err)
}

func TestGetCodec_ReusesInstance(t *testing.T) {
	c1, err := GetCodec(format.PayloadZlib)
	require.NoError(t, err)
	c2, err := GetCodec(format.PayloadZlib)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestGetCodec_Unknown(t *testing.T) {
	_, err := GetCodec(format.PayloadGzip)
	require.Error(t, err, "gzip is not a contest candidate")
}

func TestGzipCodec_RoundTrip(t *testing.T) {
	data := []byte(">s1\nACGTACGT\n>s2\nACGTTCGT\n")
	roundTrip(t, NewGzipCodec(), data)
}

func TestRawCodec_CompressIsIdentity(t *testing.T) {
	data := []byte("hello world")
	out, err := NewRawCodec().Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestZstdCompressor_ShrinksRepetitiveData(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = 'A'
	}

	compressed := roundTrip(t, NewZstdCompressor(), data)
	assert.Less(t, len(compressed), len(data))
}
