package compress

// ZstdCompressor is the zstd contest candidate (format.PayloadZstd) at level 5. Two
// mutually exclusive implementations back it, selected by build tag so exactly one is
// always compiled: zstd_cgo.go (cgo-accelerated valyala/gozstd, used when cgo is
// enabled) and zstd_pure.go (pure-Go klauspost/compress/zstd, used otherwise).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
