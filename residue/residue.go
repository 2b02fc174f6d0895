// Package residue implements the Residue Codec: given the ordered list of deviation
// residue characters collected for one consensus bucket, it competes a fixed-width
// packed code against a canonical Huffman code (internal/huffman) and keeps whichever
// produces the smaller payload.
package residue

import (
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/format"
	"github.com/JLSteenwyk/ecomp/internal/bitio"
	"github.com/JLSteenwyk/ecomp/internal/huffman"
	"github.com/JLSteenwyk/ecomp/internal/varint"
)

// Encoded is the winning mode and its self-contained payload (alphabet/model header
// plus bit-packed codes).
type Encoded struct {
	Mode    format.ResidueMode
	Payload []byte
}

// Encode packs residues (in the order they must be replayed back to callers) into
// whichever of fixed-width or canonical-Huffman produces the smaller payload. Fixed
// wins ties (the lower-numbered mode wins on equal size).
func Encode(residues []byte) Encoded {
	if len(residues) == 0 {
		return Encoded{Mode: format.ResidueFixed, Payload: nil}
	}

	fixed := encodeFixed(residues)
	best := Encoded{Mode: format.ResidueFixed, Payload: fixed}

	if huf := encodeHuffman(residues); len(huf) < len(best.Payload) {
		best = Encoded{Mode: format.ResidueHuffman, Payload: huf}
	}

	return best
}

// Decode reconstructs count residue bytes from mode and payload.
func Decode(mode format.ResidueMode, payload []byte, count int) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}

	switch mode {
	case format.ResidueFixed:
		return decodeFixed(payload, count)
	case format.ResidueHuffman:
		return decodeHuffman(payload, count)
	default:
		return nil, errs.Format(errs.ErrUnknownMode)
	}
}

func alphabetOf(residues []byte) []byte {
	seen := map[byte]bool{}
	var alphabet []byte
	for _, r := range residues {
		if !seen[r] {
			seen[r] = true
			alphabet = append(alphabet, r)
		}
	}
	insertionSortBytes(alphabet)

	return alphabet
}

func insertionSortBytes(b []byte) {
	for i := 1; i < len(b); i++ {
		v := b[i]
		j := i - 1
		for j >= 0 && b[j] > v {
			b[j+1] = b[j]
			j--
		}
		b[j+1] = v
	}
}

// bitWidth returns the number of bits needed to index n distinct values.
func bitWidth(n int) int {
	if n <= 1 {
		return 0
	}
	w := 0
	for (1 << uint(w)) < n {
		w++
	}

	return w
}

func encodeFixed(residues []byte) []byte {
	alphabet := alphabetOf(residues)
	index := make(map[byte]int, len(alphabet))
	for i, s := range alphabet {
		index[s] = i
	}
	width := bitWidth(len(alphabet))

	payload := varint.Append(nil, uint64(len(alphabet)))
	payload = append(payload, alphabet...)

	if width == 0 {
		return payload
	}

	w := bitio.NewWriter()
	for _, r := range residues {
		w.WriteBits(uint64(index[r]), width)
	}
	w.Align()
	out := append(payload, w.Bytes()...)
	w.Finish()

	return out
}

func decodeFixed(payload []byte, count int) ([]byte, error) {
	alphabetLen, n, ok := varint.Read(payload)
	if !ok {
		return nil, errs.Format(errs.ErrTruncated)
	}
	payload = payload[n:]

	if uint64(len(payload)) < alphabetLen {
		return nil, errs.Format(errs.ErrTruncated)
	}
	alphabet := payload[:alphabetLen]
	payload = payload[alphabetLen:]

	width := bitWidth(len(alphabet))
	if width == 0 {
		if len(alphabet) == 0 {
			return nil, errs.Format(errs.ErrTruncated)
		}
		out := make([]byte, count)
		for i := range out {
			out[i] = alphabet[0]
		}

		return out, nil
	}

	r := bitio.NewReader(payload)
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		idx, err := r.ReadBits(width)
		if err != nil {
			return nil, err
		}
		if int(idx) >= len(alphabet) {
			return nil, errs.Format(errs.ErrTruncated)
		}
		out[i] = alphabet[idx]
	}

	return out, nil
}

func encodeHuffman(residues []byte) []byte {
	freq := make(map[byte]int, 8)
	for _, r := range residues {
		freq[r]++
	}
	lengths := huffman.Build(freq)
	alphabet := make([]byte, len(lengths))
	for i, sl := range lengths {
		alphabet[i] = sl.Symbol
	}
	insertionSortBytes(alphabet)

	byLen := make(map[byte]uint8, len(lengths))
	for _, sl := range lengths {
		byLen[sl.Symbol] = sl.Length
	}

	payload := varint.Append(nil, uint64(len(alphabet)))
	for _, s := range alphabet {
		payload = append(payload, s, byLen[s])
	}

	codes := huffman.Canonical(lengths)
	table := huffman.NewTable(codes)

	w := bitio.NewWriter()
	for _, r := range residues {
		table.Encode(w, r)
	}
	w.Align()
	out := append(payload, w.Bytes()...)
	w.Finish()

	return out
}

func decodeHuffman(payload []byte, count int) ([]byte, error) {
	symbolCount, n, ok := varint.Read(payload)
	if !ok {
		return nil, errs.Format(errs.ErrTruncated)
	}
	payload = payload[n:]

	lengths := make([]huffman.SymbolLength, symbolCount)
	for i := uint64(0); i < symbolCount; i++ {
		if len(payload) < 2 {
			return nil, errs.Format(errs.ErrTruncated)
		}
		lengths[i] = huffman.SymbolLength{Symbol: payload[0], Length: payload[1]}
		payload = payload[2:]
	}

	codes := huffman.Canonical(lengths)
	table := huffman.NewTable(codes)

	r := bitio.NewReader(payload)
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		sym, err := table.Decode(r)
		if err != nil {
			return nil, err
		}
		out[i] = sym
	}

	return out, nil
}
