package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/format"
)

func TestMetadata_MarshalJSON_SortedKeys(t *testing.T) {
	meta := Metadata{
		FormatVersion: "1.0.0",
		Codec:         format.CodecEcomp,
		RowCount:      2,
		ColumnCount:   4,
		Alphabet:      []byte("ACGT"),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var asMap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &asMap))

	keys := make([]string, 0, len(asMap))
	for k := range asMap {
		keys = append(keys, k)
	}

	// re-marshal the same map through json.Marshal, which sorts string keys; if the
	// byte output matches, the original was already in sorted order.
	sortedBytes, err := json.Marshal(asMap)
	require.NoError(t, err)

	var roundTrip map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(sortedBytes, &roundTrip))
	assert.Equal(t, len(asMap), len(roundTrip))
	assert.Equal(t, string(sortedBytes), string(data))
}

func TestMetadata_RoundTrip_UnknownKeysPreserved(t *testing.T) {
	meta := Metadata{
		FormatVersion: "1.0.0",
		Codec:         format.CodecEcomp,
		RowCount:      3,
		Extra:         map[string]json.RawMessage{"notes": json.RawMessage(`"from a caller"`)},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var got Metadata
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, meta.FormatVersion, got.FormatVersion)
	assert.Equal(t, meta.Codec, got.Codec)
	assert.Equal(t, meta.RowCount, got.RowCount)
	require.Contains(t, got.Extra, "notes")
	assert.JSONEq(t, `"from a caller"`, string(got.Extra["notes"]))
}

func TestMetadata_RoundTrip_ChecksumAndFallback(t *testing.T) {
	meta := Metadata{
		ChecksumSHA256: [32]byte{1, 2, 3, 4},
		Fallback:       &Fallback{Type: "gzip", SourceFormat: "fasta"},
		Permutation:    []int{2, 0, 1},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var got Metadata
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, meta.ChecksumSHA256, got.ChecksumSHA256)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, *meta.Fallback, *got.Fallback)
	assert.Equal(t, meta.Permutation, got.Permutation)
}
