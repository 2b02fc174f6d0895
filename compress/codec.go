package compress

import (
	"fmt"

	"github.com/JLSteenwyk/ecomp/format"
)

// Compressor compresses a byte slice, returning a newly allocated result. The input is
// never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice previously produced by the matching
// Compressor, returning a newly allocated result.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a fresh Codec for one of the four
// payload-encoding contest candidates (raw, zlib, zstd, xz). target describes the
// caller for error messages (e.g. "payload" or "seqid").
func CreateCodec(encoding format.PayloadEncoding, target string) (Codec, error) {
	switch encoding {
	case format.PayloadRaw:
		return NewRawCodec(), nil
	case format.PayloadZlib:
		return NewZlibCodec(), nil
	case format.PayloadZstd:
		return NewZstdCompressor(), nil
	case format.PayloadXz:
		return NewXzCodec(), nil
	default:
		return nil, fmt.Errorf("invalid %s payload encoding: %s", target, encoding)
	}
}

// builtinCodecs holds one long-lived instance of each stateless contest candidate so
// GetCodec can avoid an allocation on the common path.
var builtinCodecs = map[format.PayloadEncoding]Codec{
	format.PayloadRaw:  NewRawCodec(),
	format.PayloadZlib: NewZlibCodec(),
	format.PayloadZstd: NewZstdCompressor(),
	format.PayloadXz:   NewXzCodec(),
}

// GetCodec retrieves a shared Codec instance for one of the contest candidates.
func GetCodec(encoding format.PayloadEncoding) (Codec, error) {
	if codec, ok := builtinCodecs[encoding]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported payload encoding: %s", encoding)
}
