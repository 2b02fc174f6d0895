package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// GzipCodec implements the gzip-of-raw-FASTA fallback path. Unlike the four
// payload-encoding contest candidates in this package, it is never chosen by
// CreateCodec/GetCodec: the fallback is a distinct pipeline decision (compare
// gzip(FASTA) against the structured payload), not a member of the structured-payload
// contest, so it is constructed directly by its caller.
type GzipCodec struct{}

var _ Codec = GzipCodec{}

// NewGzipCodec creates a GzipCodec.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

// Compress gzip-compresses data at the default compression level.
func (c GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a gzip stream produced by Compress.
func (c GzipCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: create reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: read: %w", err)
	}

	return out, nil
}
