package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/frame"
	"github.com/JLSteenwyk/ecomp/pipeline"
	"github.com/JLSteenwyk/ecomp/section"
)

func mustFrame(t *testing.T, ids, rows []string) frame.AlignmentFrame {
	t.Helper()
	f, err := frame.New(ids, rows, nil)
	require.NoError(t, err)

	return f
}

func TestWriteRead_RoundTrip(t *testing.T) {
	f := mustFrame(t, []string{"s1", "s2"}, []string{"ACGTACGT", "ACGTTCGT"})
	payload, meta, err := pipeline.Compress(f, pipeline.DefaultConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "alignment.ecomp")
	require.NoError(t, Write(path, payload, meta))

	gotPayload, gotMeta, version, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, payload, gotPayload)
	assert.Equal(t, meta.ChecksumSHA256, gotMeta.ChecksumSHA256)
	assert.Equal(t, meta.Codec, gotMeta.Codec)
	assert.Equal(t, pipeline.FormatVersion, version)

	restored, err := pipeline.Decompress(gotPayload, gotMeta, true)
	require.NoError(t, err)
	assert.Equal(t, f.IDs, restored.IDs)
	assert.Equal(t, f.Rows, restored.Rows)
}

func TestWriteRead_UnknownMetadataKeysPreserved(t *testing.T) {
	f := mustFrame(t, []string{"s1", "s2"}, []string{"ACGT", "ACGA"})
	payload, meta, err := pipeline.Compress(f, pipeline.DefaultConfig())
	require.NoError(t, err)

	meta.Extra = map[string]json.RawMessage{"tool": json.RawMessage(`"custom-caller"`)}

	path := filepath.Join(t.TempDir(), "alignment.ecomp")
	require.NoError(t, Write(path, payload, meta))

	_, gotMeta, _, err := Read(path)
	require.NoError(t, err)
	require.Contains(t, gotMeta.Extra, "tool")
	assert.JSONEq(t, `"custom-caller"`, string(gotMeta.Extra["tool"]))
}

func TestRead_LegacyArchiveWithSidecarJSON(t *testing.T) {
	f := mustFrame(t, []string{"s1", "s2"}, []string{"ACGT", "ACGA"})
	payload, meta, err := pipeline.Compress(f, pipeline.DefaultConfig())
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.ecomp")

	legacy := section.LegacyHeader{
		Major: pipeline.FormatVersion[0], Minor: pipeline.FormatVersion[1], Patch: pipeline.FormatVersion[2],
		PayloadLen: uint64(len(payload)),
	}
	hdr := make([]byte, section.LegacyHeaderSize)
	copy(hdr[0:4], section.Magic)
	hdr[4], hdr[5], hdr[6] = legacy.Major, legacy.Minor, legacy.Patch
	hdr[7] = byte(legacy.PayloadLen >> 24)
	hdr[8] = byte(legacy.PayloadLen >> 16)
	hdr[9] = byte(legacy.PayloadLen >> 8)
	hdr[10] = byte(legacy.PayloadLen)

	require.NoError(t, os.WriteFile(path, append(hdr, payload...), 0o644))

	metaJSON, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path+".json", metaJSON, 0o644))

	gotPayload, gotMeta, version, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, payload, gotPayload)
	assert.Equal(t, meta.ChecksumSHA256, gotMeta.ChecksumSHA256)
	assert.Equal(t, pipeline.FormatVersion, version)
}

func TestRead_BadMagicFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ecomp")
	require.NoError(t, os.WriteFile(path, []byte("XXXXnotarealarchivebody"), 0o644))

	_, _, _, err := Read(path)
	assert.Error(t, err)
}
