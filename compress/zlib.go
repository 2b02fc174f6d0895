package compress

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// ZlibCodec is the zlib contest candidate (format.PayloadZlib), also reused by the
// seqid package for sequence-ID block mode 2. Compression runs at level 9 (best
// compression).
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a ZlibCodec.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

// Compress zlib-compresses data at level 9.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("zlib: create writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream produced by Compress.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: create reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib: read: %w", err)
	}

	return out, nil
}
