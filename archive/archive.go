// Package archive implements the Archive Container: a framed binary file pairing a
// payload with its Metadata Record, written as either the current 19-byte header plus
// an embedded metadata blob, or read back from a legacy 16-byte header with a sibling
// .json metadata file.
package archive

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/pipeline"
	"github.com/JLSteenwyk/ecomp/section"
)

// zlibMagic prefixes a zlib-compressed metadata blob: "ECMZ" + u8 codec-version +
// zlib-compressed JSON.
const zlibMagic = "ECMZ"

const zlibCodecVersion = 1

// minMetadataCompressionGain is the byte margin a compressed metadata blob must beat
// the plain JSON by to be accepted, i.e. len(zlibMagic)+1.
const minMetadataCompressionGain = len(zlibMagic) + 1

// Write serializes payload and meta to path using the current archive format: the
// 19-byte header, payload, and a metadata blob (plain canonical JSON, or
// zlib-compressed when that wins by the required margin).
func Write(path string, payload []byte, meta pipeline.Metadata) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("archive: marshal metadata: %w", err)
	}

	metaBlob := metaJSON
	if compressed, ok := tryCompressMetadata(metaJSON); ok {
		metaBlob = compressed
	}

	header := section.NewHeader(
		pipeline.FormatVersion[0], pipeline.FormatVersion[1], pipeline.FormatVersion[2],
		uint64(len(payload)), uint32(len(metaBlob)),
	)

	out := make([]byte, 0, section.HeaderSize+len(payload)+len(metaBlob))
	out = append(out, header.Bytes()...)
	out = append(out, payload...)
	out = append(out, metaBlob...)

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("archive: write %s: %w", path, err)
	}

	return nil
}

// Read loads an archive from path, transparently handling both the current
// self-contained format and a legacy archive (16-byte header plus a sibling
// "<path>.json" metadata file).
func Read(path string) ([]byte, pipeline.Metadata, [3]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeline.Metadata{}, [3]uint8{}, fmt.Errorf("archive: read %s: %w", path, err)
	}

	if _, statErr := os.Stat(path + ".json"); statErr == nil {
		return readLegacy(path, data)
	}

	return readCurrent(data)
}

func readCurrent(data []byte) ([]byte, pipeline.Metadata, [3]uint8, error) {
	hdr, err := section.ParseHeader(data)
	if err != nil {
		return nil, pipeline.Metadata{}, [3]uint8{}, err
	}
	version := [3]uint8{hdr.Major, hdr.Minor, hdr.Patch}

	body := data[section.HeaderSize:]
	if uint64(len(body)) < hdr.PayloadLen {
		return nil, pipeline.Metadata{}, version, errs.Format(errs.ErrTruncated)
	}
	payload := body[:hdr.PayloadLen]
	rest := body[hdr.PayloadLen:]

	if uint64(len(rest)) < uint64(hdr.MetadataLen) {
		return nil, pipeline.Metadata{}, version, errs.Format(errs.ErrTruncated)
	}
	metaBlob := rest[:hdr.MetadataLen]

	metaJSON, err := decompressMetadata(metaBlob)
	if err != nil {
		return nil, pipeline.Metadata{}, version, err
	}

	var meta pipeline.Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, pipeline.Metadata{}, version, errs.Format(fmt.Errorf("archive: unmarshal metadata: %w", err))
	}

	return append([]byte(nil), payload...), meta, version, nil
}

func readLegacy(path string, data []byte) ([]byte, pipeline.Metadata, [3]uint8, error) {
	hdr, err := section.ParseLegacyHeader(data)
	if err != nil {
		return nil, pipeline.Metadata{}, [3]uint8{}, err
	}
	version := [3]uint8{hdr.Major, hdr.Minor, hdr.Patch}

	body := data[section.LegacyHeaderSize:]
	if uint64(len(body)) < hdr.PayloadLen {
		return nil, pipeline.Metadata{}, version, errs.Format(errs.ErrTruncated)
	}
	payload := body[:hdr.PayloadLen]

	metaJSON, err := os.ReadFile(path + ".json")
	if err != nil {
		return nil, pipeline.Metadata{}, version, fmt.Errorf("archive: read sidecar metadata %s.json: %w", path, err)
	}

	var meta pipeline.Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, pipeline.Metadata{}, version, errs.Format(fmt.Errorf("archive: unmarshal sidecar metadata: %w", err))
	}

	return append([]byte(nil), payload...), meta, version, nil
}

func tryCompressMetadata(plain []byte) ([]byte, bool) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, false
	}
	if _, err := w.Write(plain); err != nil {
		return nil, false
	}
	if err := w.Close(); err != nil {
		return nil, false
	}

	compressed := append([]byte(zlibMagic), zlibCodecVersion)
	compressed = append(compressed, buf.Bytes()...)

	if len(plain)-len(compressed) >= minMetadataCompressionGain {
		return compressed, true
	}

	return nil, false
}

func decompressMetadata(blob []byte) ([]byte, error) {
	if len(blob) < len(zlibMagic) || string(blob[:len(zlibMagic)]) != zlibMagic {
		return blob, nil
	}
	if len(blob) < len(zlibMagic)+1 {
		return nil, errs.Format(errs.ErrTruncated)
	}

	r, err := zlib.NewReader(bytes.NewReader(blob[len(zlibMagic)+1:]))
	if err != nil {
		return nil, errs.Format(fmt.Errorf("archive: metadata zlib: %w", err))
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Format(fmt.Errorf("archive: metadata zlib: %w", err))
	}

	return out, nil
}
