// Package compress implements the generic-compressor contest ecomp runs over its
// structured payload plus the literal gzip container used by the whole-archive
// fallback path.
//
// # Contest candidates
//
// CreateCodec/GetCodec construct one of exactly four candidates, matching the
// format.PayloadEncoding tags the wire format reserves:
//
//	raw   RawCodec   identity; the floor every other candidate must beat
//	zlib  ZlibCodec  stdlib compress/zlib at level 9
//	zstd  ZstdCompressor  klauspost/compress/zstd (pure Go) or valyala/gozstd (whenever cgo is enabled)
//	xz    XzCodec     ulikunitz/xz
//
// The outer pipeline runs the structured payload through all four, in that tag order,
// and keeps the smallest result, recording the winning tag in Metadata.PayloadEncoding.
// Ties are broken by the order above (raw < zlib < zstd < xz).
//
// GzipCodec is not a contest member: it implements the separate fallback decision
// (gzip the original FASTA, swap it in only if it beats the already-chosen structured
// payload by at least two bytes and is smaller than the FASTA itself).
//
// # Optional codec availability
//
// Every candidate here is always available in this build (no cgo-only candidate is
// required to round-trip an archive). The pipeline still guards decode with
// errs.ErrUnavailableCodec for a payload tagged with a codec this build doesn't
// recognize, since an optional codec unavailable at runtime is simply omitted from
// the contest rather than treated as an error.
package compress
