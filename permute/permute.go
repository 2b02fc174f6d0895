// Package permute implements the in-payload permutation chunk: the canonical way a
// non-identity row permutation travels with the payload, in-payload, width-coded, and
// always little-endian. This package owns the canonical in-payload form; the pipeline
// package owns reading a metadata-stored permutation as the legacy alternate.
package permute

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/internal/varint"
)

// Magic is the in-payload permutation chunk's 4-byte tag.
const Magic = "ECPE"

// minCompressionGain mirrors seqid's acceptance margin, applied here to the
// permutation chunk's own zlib candidate.
const minCompressionGain = 2

// Encode serializes a non-identity row permutation as an ECPE chunk: magic, a
// compressed-flag byte, a varint chunk length, and the chunk body (row count, an
// index width byte, and that many little-endian indices of the chosen width -
// optionally zlib-compressed when that wins by the same margin seqid uses). perm is
// nil or empty is rejected by the caller before this is reached; Encode does not
// special-case identity.
func Encode(perm []int) []byte {
	plain := marshalPlain(perm)

	flag := byte(0)
	body := plain

	if z := deflate(plain); z != nil && len(plain)-len(z) >= minCompressionGain {
		flag = 1
		body = z
	}

	out := append([]byte(Magic), flag)
	out = varint.Append(out, uint64(len(body)))
	out = append(out, body...)

	return out
}

// TryDecode reads a leading ECPE chunk from data if present, returning the decoded
// permutation, the remaining unconsumed bytes, and found=true. found=false (with data
// returned unchanged) means data does not start with the ECPE magic, the normal case
// when the archive carries no permutation.
func TryDecode(data []byte) (perm []int, rest []byte, found bool, err error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, data, false, nil
	}
	pos := len(Magic)

	if len(data) < pos+1 {
		return nil, nil, true, errs.Format(errs.ErrTruncated)
	}
	flag := data[pos]
	pos++

	chunkLen, n, ok := varint.Read(data[pos:])
	if !ok {
		return nil, nil, true, errs.Format(errs.ErrTruncated)
	}
	pos += n

	if uint64(len(data[pos:])) < chunkLen {
		return nil, nil, true, errs.Format(errs.ErrTruncated)
	}
	body := data[pos : pos+int(chunkLen)]
	rest = data[pos+int(chunkLen):]

	plain := body
	if flag == 1 {
		plain, err = inflate(body)
		if err != nil {
			return nil, nil, true, err
		}
	}

	perm, err = unmarshalPlain(plain)
	if err != nil {
		return nil, nil, true, err
	}

	return perm, rest, true, nil
}

func widthFor(n int) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	default:
		return 4
	}
}

func putLE(buf []byte, width int, v uint32) []byte {
	switch width {
	case 1:
		return append(buf, byte(v))
	case 2:
		return append(buf, byte(v), byte(v>>8))
	default:
		return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
}

func getLE(buf []byte, width int) uint32 {
	switch width {
	case 1:
		return uint32(buf[0])
	case 2:
		return uint32(buf[0]) | uint32(buf[1])<<8
	default:
		return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	}
}

func marshalPlain(perm []int) []byte {
	maxIdx := 0
	for _, p := range perm {
		if p > maxIdx {
			maxIdx = p
		}
	}
	width := widthFor(maxIdx)

	out := varint.Append(nil, uint64(len(perm)))
	out = append(out, byte(width))
	for _, p := range perm {
		out = putLE(out, width, uint32(p))
	}

	return out
}

func unmarshalPlain(data []byte) ([]int, error) {
	count, n, ok := varint.Read(data)
	if !ok {
		return nil, errs.Format(errs.ErrTruncated)
	}
	data = data[n:]

	if len(data) < 1 {
		return nil, errs.Format(errs.ErrTruncated)
	}
	width := int(data[0])
	data = data[1:]
	if width != 1 && width != 2 && width != 4 {
		return nil, errs.Format(errs.ErrUnknownMode)
	}

	if len(data) < int(count)*width {
		return nil, errs.Format(errs.ErrTruncated)
	}

	perm := make([]int, count)
	for i := range perm {
		perm[i] = int(getLE(data[i*width:], width))
	}

	return perm, nil
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return nil
	}
	if err := w.Close(); err != nil {
		return nil
	}

	return buf.Bytes()
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Format(errs.ErrTruncated)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Format(errs.ErrTruncated)
	}

	return out, nil
}
