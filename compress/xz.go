package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// XzCodec is the xz contest candidate (format.PayloadXz), using preset 6.
type XzCodec struct{}

var _ Codec = XzCodec{}

// NewXzCodec creates an XzCodec.
func NewXzCodec() XzCodec {
	return XzCodec{}
}

// Compress xz-compresses data. ulikunitz/xz's default writer configuration uses an
// 8MiB dictionary, matching the xz CLI's preset 6 default; there is no separate
// numeric preset knob in this library to set explicitly.
func (c XzCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz: create writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress unpacks an xz stream produced by Compress.
func (c XzCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz: create reader: %w", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xz: read: %w", err)
	}

	return out, nil
}
