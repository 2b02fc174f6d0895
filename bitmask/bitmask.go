// Package bitmask implements the Bitmask Codec: a per-block per-row
// deviation membership mask, competing three storage modes (raw, sparse-varint,
// run-length) and keeping the smallest, tagged by a 2-bit mode in the block header.
package bitmask

import (
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/format"
	"github.com/JLSteenwyk/ecomp/internal/varint"
)

// Encoded is the winning mode and its payload bytes (mode byte itself lives in the
// caller's block header, not in Payload).
type Encoded struct {
	Mode    format.BitmaskMode
	Payload []byte
}

// Encode packs bits (one bool per row, true meaning that row deviates) into whichever
// of the three modes produces the smallest payload. Ties are broken by preferring mode
// 0 over mode 1 over mode 2: modes are tried in that fixed order and the incumbent is
// replaced only on strictly smaller size.
func Encode(bits []bool) Encoded {
	best := Encoded{Mode: format.BitmaskRaw, Payload: encodeRaw(bits)}

	if sparse := encodeSparse(bits); len(sparse) < len(best.Payload) {
		best = Encoded{Mode: format.BitmaskSparse, Payload: sparse}
	}
	if rle := encodeRLE(bits); len(rle) < len(best.Payload) {
		best = Encoded{Mode: format.BitmaskRLE, Payload: rle}
	}

	return best
}

// Decode reconstructs the full, rowCount-length bitmask from a mode and its payload.
func Decode(mode format.BitmaskMode, payload []byte, rowCount int) ([]bool, error) {
	switch mode {
	case format.BitmaskRaw:
		return decodeRaw(payload, rowCount)
	case format.BitmaskSparse:
		return decodeSparse(payload, rowCount)
	case format.BitmaskRLE:
		return decodeRLE(payload, rowCount)
	default:
		return nil, errs.Format(errs.ErrUnknownMode)
	}
}

func packBytes(bits []bool) []byte {
	width := (len(bits) + 7) / 8
	out := make([]byte, width)
	for i, set := range bits {
		if set {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}

	return out
}

// encodeRaw packs bits MSB-first and strips trailing all-zero bytes.
func encodeRaw(bits []bool) []byte {
	packed := packBytes(bits)
	n := len(packed)
	for n > 0 && packed[n-1] == 0 {
		n--
	}

	return packed[:n]
}

func decodeRaw(payload []byte, rowCount int) ([]bool, error) {
	width := (rowCount + 7) / 8
	if len(payload) > width {
		return nil, errs.Format(errs.ErrTruncated)
	}

	bits := make([]bool, rowCount)
	for i := 0; i < rowCount; i++ {
		byteIdx := i / 8
		if byteIdx >= len(payload) {
			break // beyond the stripped trailing zero bytes; stays false
		}
		bits[i] = (payload[byteIdx]>>uint(7-i%8))&1 == 1
	}

	return bits, nil
}

// encodeSparse writes the ascending list of set-bit indices as varint deltas, prefixed
// by the count.
func encodeSparse(bits []bool) []byte {
	var indices []int
	for i, set := range bits {
		if set {
			indices = append(indices, i)
		}
	}

	payload := varint.Append(nil, uint64(len(indices)))
	prev := 0
	for _, idx := range indices {
		payload = varint.Append(payload, uint64(idx-prev))
		prev = idx
	}

	return payload
}

func decodeSparse(payload []byte, rowCount int) ([]bool, error) {
	count, n, ok := varint.Read(payload)
	if !ok {
		return nil, errs.Format(errs.ErrTruncated)
	}
	payload = payload[n:]

	bits := make([]bool, rowCount)
	prev := 0
	for i := uint64(0); i < count; i++ {
		delta, n, ok := varint.Read(payload)
		if !ok {
			return nil, errs.Format(errs.ErrTruncated)
		}
		payload = payload[n:]

		idx := prev + int(delta)
		if idx < 0 || idx >= rowCount {
			return nil, errs.Format(errs.ErrTruncated)
		}
		bits[idx] = true
		prev = idx
	}

	return bits, nil
}

// encodeRLE writes alternating run lengths of 0-bits then 1-bits (starting with a
// possibly-zero run of 0s) as varints, covering exactly len(bits) bits.
func encodeRLE(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}

	var payload []byte
	cur := false
	runLen := 0
	for _, b := range bits {
		if b == cur {
			runLen++

			continue
		}
		payload = varint.Append(payload, uint64(runLen))
		cur = b
		runLen = 1
	}
	payload = varint.Append(payload, uint64(runLen))

	return payload
}

func decodeRLE(payload []byte, rowCount int) ([]bool, error) {
	bits := make([]bool, rowCount)
	cur := false
	pos := 0

	for len(payload) > 0 && pos < rowCount {
		runLen, n, ok := varint.Read(payload)
		if !ok {
			return nil, errs.Format(errs.ErrTruncated)
		}
		payload = payload[n:]

		end := pos + int(runLen)
		if end > rowCount {
			return nil, errs.Format(errs.ErrTruncated)
		}
		if cur {
			for ; pos < end; pos++ {
				bits[pos] = true
			}
		} else {
			pos = end
		}
		cur = !cur
	}

	return bits, nil
}
