// Package ecomp is the thin public-API wrapper over the codec: Compress/Decompress
// delegate to pipeline, WriteArchive/ReadArchive-style helpers delegate to archive,
// and CompressFile wires an external frame-loading collaborator into the write path.
package ecomp

import (
	"github.com/JLSteenwyk/ecomp/archive"
	"github.com/JLSteenwyk/ecomp/frame"
	"github.com/JLSteenwyk/ecomp/pipeline"
)

// Compress runs the full compression pipeline over f, returning the final payload
// bytes and the Metadata Record describing them. See pipeline.Compress for the
// orchestration (order optimizer, profiler, run-length grouper, block stream codec,
// generic-compressor contest, gzip fallback).
func Compress(f frame.AlignmentFrame, opts ...pipeline.Option) ([]byte, pipeline.Metadata, error) {
	cfg, err := pipeline.Apply(opts...)
	if err != nil {
		return nil, pipeline.Metadata{}, err
	}

	return pipeline.Compress(f, cfg)
}

// Decompress reconstructs the AlignmentFrame payload encodes, verifying its SHA-256
// checksum against meta by default; call pipeline.Decompress directly to disable
// verification.
func Decompress(payload []byte, meta pipeline.Metadata) (frame.AlignmentFrame, error) {
	return pipeline.Decompress(payload, meta, true)
}

// WriteArchive writes payload and meta to path in the archive container format.
func WriteArchive(path string, payload []byte, meta pipeline.Metadata) error {
	return archive.Write(path, payload, meta)
}

// ReadArchive reads an archive back from path, returning its payload, Metadata
// Record, and format version.
func ReadArchive(path string) ([]byte, pipeline.Metadata, [3]uint8, error) {
	return archive.Read(path)
}

// CompressFile uses loadFrame, an external alignment-file-reader collaborator supplied
// by the caller, to parse framePath, compresses the resulting frame, and writes the
// archive to archivePath.
func CompressFile(framePath, archivePath string, loadFrame func(path string) (frame.AlignmentFrame, error), opts ...pipeline.Option) error {
	f, err := loadFrame(framePath)
	if err != nil {
		return err
	}

	payload, meta, err := Compress(f, opts...)
	if err != nil {
		return err
	}

	return WriteArchive(archivePath, payload, meta)
}
