package ecomp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/frame"
	"github.com/JLSteenwyk/ecomp/pipeline"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	f, err := frame.New([]string{"s1", "s2"}, []string{"ACGTACGT", "ACGTTCGT"}, nil)
	require.NoError(t, err)

	payload, meta, err := Compress(f)
	require.NoError(t, err)

	got, err := Decompress(payload, meta)
	require.NoError(t, err)
	assert.Equal(t, f.IDs, got.IDs)
	assert.Equal(t, f.Rows, got.Rows)
}

func TestCompress_OptionsApplied(t *testing.T) {
	f, err := frame.New([]string{"s1", "s2", "s3"}, []string{"AAAA", "CCCC", "GGGG"}, nil)
	require.NoError(t, err)

	_, meta, err := Compress(f, pipeline.WithOrderingStrategy("baseline"), pipeline.WithAllowGzipFallback(false))
	require.NoError(t, err)
	assert.Equal(t, "baseline", meta.OrderingStrategy)
}

func TestWriteReadArchive_RoundTrip(t *testing.T) {
	f, err := frame.New([]string{"s1", "s2"}, []string{"ACGTACGT", "ACGTTCGT"}, nil)
	require.NoError(t, err)

	payload, meta, err := Compress(f)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "alignment.ecomp")
	require.NoError(t, WriteArchive(path, payload, meta))

	gotPayload, gotMeta, _, err := ReadArchive(path)
	require.NoError(t, err)

	got, err := Decompress(gotPayload, gotMeta)
	require.NoError(t, err)
	assert.Equal(t, f.IDs, got.IDs)
	assert.Equal(t, f.Rows, got.Rows)
}

func TestCompressFile_UsesLoader(t *testing.T) {
	f, err := frame.New([]string{"s1", "s2"}, []string{"ACGTACGT", "ACGTTCGT"}, nil)
	require.NoError(t, err)

	loader := func(path string) (frame.AlignmentFrame, error) {
		return f, nil
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.ecomp")
	err = CompressFile(filepath.Join(dir, "in.fasta"), archivePath, loader)
	require.NoError(t, err)

	payload, meta, _, err := ReadArchive(archivePath)
	require.NoError(t, err)

	got, err := Decompress(payload, meta)
	require.NoError(t, err)
	assert.Equal(t, f.IDs, got.IDs)
	assert.Equal(t, f.Rows, got.Rows)
}
