// Package pipeline implements the Outer Pipeline: it orchestrates
// the order optimizer, column profiler, run-length grouper, and block stream codec
// into one structured payload, runs the generic-compressor contest over it, applies
// the gzip-of-FASTA fallback, and assembles the Metadata Record the
// archive container persists alongside the payload.
package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/JLSteenwyk/ecomp/blockstream"
	"github.com/JLSteenwyk/ecomp/compress"
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/format"
	"github.com/JLSteenwyk/ecomp/frame"
	"github.com/JLSteenwyk/ecomp/order"
	"github.com/JLSteenwyk/ecomp/permute"
	"github.com/JLSteenwyk/ecomp/profile"
	"github.com/JLSteenwyk/ecomp/runlength"
	"github.com/JLSteenwyk/ecomp/seqid"
)

// FormatVersion is the codec's current format version (three version bytes), also
// written into the archive header by the archive package.
var FormatVersion = [3]uint8{1, 0, 0}

// minFallbackGain is the byte margin the gzip fallback must beat the structured
// payload by to be accepted.
const minFallbackGain = 2

// Compress runs the full Outer Pipeline (compress direction) over f and returns the
// final payload bytes plus its Metadata Record.
func Compress(f frame.AlignmentFrame, cfg Config) ([]byte, Metadata, error) {
	checksum := sha256.Sum256(f.ConcatRows())

	orderResult := order.Optimize(f, cfg.TreeNewick, cfg.OrderingStrategy, gapThreshold(cfg))

	reordered := f
	if orderResult.Permutation != nil {
		reordered = f.Permute(orderResult.Permutation)
	}

	profiles := profile.Profile(reordered)
	blocks := runlength.Group(profiles, reordered.RowCount())
	blockStreamBytes := blockstream.Encode(blocks)
	seqidBytes := seqid.Encode(reordered.IDs)

	rawPayload := make([]byte, 0, len(seqidBytes)+len(blockStreamBytes)+32)
	if orderResult.Permutation != nil {
		rawPayload = append(rawPayload, permute.Encode(orderResult.Permutation)...)
	}
	rawPayload = append(rawPayload, seqidBytes...)
	rawPayload = append(rawPayload, blockStreamBytes...)

	encoding, structuredPayload, err := contestPayload(rawPayload)
	if err != nil {
		return nil, Metadata{}, err
	}

	meta := Metadata{
		FormatVersion:        formatVersionString(),
		Codec:                format.CodecEcomp,
		RowCount:             reordered.RowCount(),
		ColumnCount:          reordered.ColumnCount(),
		Alphabet:             f.Alphabet,
		SourceFormat:         cfg.SourceFormat,
		ChecksumSHA256:       checksum,
		BlockCount:           len(blocks),
		MaxRunLength:         maxRunLength(blocks),
		DeviationColumnCount: deviationColumnCount(blocks),
		BitmaskByteWidth:     (reordered.RowCount() + 7) / 8,
		BitsPerSymbol:        bitsPerSymbol(len(f.Alphabet)),
		PayloadEncoding:      encoding,
		RawSize:              len(rawPayload),
		EncodedSize:          len(structuredPayload),
		OrderingStrategy:     orderResult.Label,
	}

	payload := structuredPayload

	if cfg.AllowGzipFallback {
		fasta := f.FASTA()
		gz, err := compress.NewGzipCodec().Compress(fasta)
		if err == nil && len(structuredPayload)-len(gz) >= minFallbackGain && len(gz) < len(fasta) {
			payload = gz
			meta.Codec = format.CodecFallbackGzip
			meta.PayloadEncoding = format.PayloadGzip
			meta.EncodedSize = len(gz)
			meta.OrderingStrategy = "baseline"
			meta.Fallback = &Fallback{Type: "gzip", SourceFormat: cfg.SourceFormat}
		}
	}

	return payload, meta, nil
}

// Decompress runs the full Outer Pipeline (decompress direction), reconstructing the
// original AlignmentFrame from payload and its Metadata Record.
func Decompress(payload []byte, meta Metadata, verifyChecksum bool) (frame.AlignmentFrame, error) {
	if meta.Fallback != nil && meta.Fallback.Type == "gzip" {
		return decompressFallback(payload, meta, verifyChecksum)
	}

	return decompressStructured(payload, meta, verifyChecksum)
}

func decompressFallback(payload []byte, meta Metadata, verifyChecksum bool) (frame.AlignmentFrame, error) {
	raw, err := compress.NewGzipCodec().Decompress(payload)
	if err != nil {
		return frame.AlignmentFrame{}, errs.Format(err)
	}

	f, err := frame.ParseFASTA(raw, map[string]string{"source_format": meta.SourceFormat})
	if err != nil {
		return frame.AlignmentFrame{}, err
	}

	if verifyChecksum {
		if err := checkChecksum(f, meta); err != nil {
			return frame.AlignmentFrame{}, err
		}
	}

	return f, nil
}

func decompressStructured(payload []byte, meta Metadata, verifyChecksum bool) (frame.AlignmentFrame, error) {
	codec, err := compress.GetCodec(meta.PayloadEncoding)
	if err != nil {
		return frame.AlignmentFrame{}, errs.Format(errs.ErrUnavailableCodec)
	}

	rawPayload, err := codec.Decompress(payload)
	if err != nil {
		return frame.AlignmentFrame{}, errs.Format(err)
	}

	perm, rest, found, err := permute.TryDecode(rawPayload)
	if err != nil {
		return frame.AlignmentFrame{}, err
	}

	ids, n, err := seqid.Decode(rest)
	if err != nil {
		return frame.AlignmentFrame{}, err
	}
	rest = rest[n:]

	blocks, err := blockstream.Decode(rest, len(ids))
	if err != nil {
		return frame.AlignmentFrame{}, err
	}

	rows := materializeRows(blocks, len(ids))

	reordered, err := frame.New(ids, rows, map[string]string{"source_format": meta.SourceFormat})
	if err != nil {
		return frame.AlignmentFrame{}, err
	}

	original := reordered
	switch {
	case found:
		original = reordered.Permute(order.Inverse(perm))
	case len(meta.Permutation) > 0:
		original = reordered.Permute(order.Inverse(meta.Permutation))
	}

	if verifyChecksum {
		if err := checkChecksum(original, meta); err != nil {
			return frame.AlignmentFrame{}, err
		}
	}

	return original, nil
}

func checkChecksum(f frame.AlignmentFrame, meta Metadata) error {
	got := sha256.Sum256(f.ConcatRows())
	if got != meta.ChecksumSHA256 {
		return errs.Integrity(errs.ErrChecksumMismatch)
	}

	return nil
}

func materializeRows(blocks []runlength.Block, rowCount int) []string {
	bufs := make([][]byte, rowCount)
	for _, b := range blocks {
		col := b.Column(rowCount)
		for rep := 0; rep < b.RunLength; rep++ {
			for r := 0; r < rowCount; r++ {
				bufs[r] = append(bufs[r], col[r])
			}
		}
	}

	rows := make([]string, rowCount)
	for r, buf := range bufs {
		rows[r] = string(buf)
	}

	return rows
}

// contestPayload runs the four generic-compressor candidates (raw, zlib, zstd, xz)
// over raw and returns the smallest, tagged by its PayloadEncoding.
// Ties are broken by trying the candidates in tag order and only replacing the
// incumbent on strictly smaller size, so raw < zlib < zstd < xz wins ties.
func contestPayload(raw []byte) (format.PayloadEncoding, []byte, error) {
	candidates := []format.PayloadEncoding{format.PayloadZlib, format.PayloadZstd, format.PayloadXz}

	bestTag := format.PayloadRaw
	bestBody := raw

	for _, tag := range candidates {
		codec, err := compress.GetCodec(tag)
		if err != nil {
			continue // optional codec unavailable in this build; simply omitted from the contest
		}
		body, err := codec.Compress(raw)
		if err != nil {
			continue
		}
		if len(body) < len(bestBody) {
			bestTag, bestBody = tag, body
		}
	}

	return bestTag, bestBody, nil
}

func gapThreshold(cfg Config) float64 {
	if cfg.GapThreshold > 0 {
		return cfg.GapThreshold
	}

	return order.DefaultGapThreshold
}

func maxRunLength(blocks []runlength.Block) int {
	max := 0
	for _, b := range blocks {
		if b.RunLength > max {
			max = b.RunLength
		}
	}

	return max
}

func deviationColumnCount(blocks []runlength.Block) int {
	count := 0
	for _, b := range blocks {
		if b.DeviationCount() > 0 {
			count += b.RunLength
		}
	}

	return count
}

// bitsPerSymbol returns max(1, ceil(log2(n))).
func bitsPerSymbol(n int) int {
	if n <= 1 {
		return 1
	}
	bits := 0
	for (1 << uint(bits)) < n {
		bits++
	}

	return bits
}

func formatVersionString() string {
	return fmt.Sprintf("%d.%d.%d", FormatVersion[0], FormatVersion[1], FormatVersion[2])
}
