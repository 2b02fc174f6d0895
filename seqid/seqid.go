// Package seqid implements the Sequence-ID Block: the row identifiers
// are framed as `ECID` + version + varint block length + (version 2 only) mode byte +
// payload, with the plain UTF-8 list optionally zstd- or zlib-compressed when that
// clearly wins. Version 1 (no mode byte, always plain) is accepted on decode for
// backward compatibility but never written.
package seqid

import (
	"github.com/JLSteenwyk/ecomp/compress"
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/internal/varint"
)

// Magic is the Sequence-ID Block's 4-byte tag.
const Magic = "ECID"

const (
	versionLegacy = 1
	versionCurrent = 2
)

const (
	modePlain byte = 0
	modeZstd  byte = 1
	modeZlib  byte = 2
)

// minCompressionGain is the byte margin a compressed candidate must beat the plain
// encoding by to be accepted.
const minCompressionGain = 2

// Encode serializes ids as a version-2 ECID block, choosing whichever of plain/
// zstd/zlib produces the smallest output.
func Encode(ids []string) []byte {
	plain := marshalPlain(ids)

	mode := modePlain
	body := plain

	if z, err := compress.NewZstdCompressor().Compress(plain); err == nil &&
		len(plain)-len(z) >= minCompressionGain && len(z) < len(body) {
		mode, body = modeZstd, z
	}
	if zl, err := compress.NewZlibCodec().Compress(plain); err == nil &&
		len(plain)-len(zl) >= minCompressionGain && len(zl) < len(body) {
		mode, body = modeZlib, zl
	}

	out := append([]byte(Magic), versionCurrent)
	out = varint.Append(out, uint64(1+len(body)))
	out = append(out, mode)
	out = append(out, body...)

	return out
}

// Decode reads one ECID block from the front of data, returning the decoded ids and
// the number of bytes consumed.
func Decode(data []byte) ([]string, int, error) {
	if len(data) < len(Magic)+1 {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, 0, errs.Format(errs.ErrBadMagic)
	}
	pos := len(Magic)
	version := data[pos]
	pos++

	blockLen, n, ok := varint.Read(data[pos:])
	if !ok {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	pos += n

	if uint64(len(data[pos:])) < blockLen {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	block := data[pos : pos+int(blockLen)]
	consumed := pos + int(blockLen)

	switch version {
	case versionLegacy:
		ids, err := unmarshalPlain(block)

		return ids, consumed, err
	case versionCurrent:
		if len(block) < 1 {
			return nil, 0, errs.Format(errs.ErrTruncated)
		}
		plain, err := decompressBody(block[0], block[1:])
		if err != nil {
			return nil, 0, err
		}
		ids, err := unmarshalPlain(plain)

		return ids, consumed, err
	default:
		return nil, 0, errs.Format(errs.ErrUnknownSeqIDVersion)
	}
}

func decompressBody(mode byte, body []byte) ([]byte, error) {
	switch mode {
	case modePlain:
		return body, nil
	case modeZstd:
		return compress.NewZstdCompressor().Decompress(body)
	case modeZlib:
		return compress.NewZlibCodec().Decompress(body)
	default:
		return nil, errs.Format(errs.ErrUnknownMode)
	}
}

func marshalPlain(ids []string) []byte {
	buf := varint.Append(nil, uint64(len(ids)))
	for _, id := range ids {
		buf = varint.Append(buf, uint64(len(id)))
		buf = append(buf, id...)
	}

	return buf
}

func unmarshalPlain(data []byte) ([]string, error) {
	count, n, ok := varint.Read(data)
	if !ok {
		return nil, errs.Format(errs.ErrTruncated)
	}
	data = data[n:]

	ids := make([]string, count)
	for i := range ids {
		l, n, ok := varint.Read(data)
		if !ok {
			return nil, errs.Format(errs.ErrTruncated)
		}
		data = data[n:]

		if uint64(len(data)) < l {
			return nil, errs.Format(errs.ErrTruncated)
		}
		ids[i] = string(data[:l])
		data = data[l:]
	}

	return ids, nil
}
