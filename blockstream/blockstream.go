// Package blockstream implements the Block Stream Codec: it encodes each
// run-length block's bitmask and residues (via the bitmask and residue packages), builds
// a dictionary of frequently repeated (consensus, bitmask, residues) triples, and emits
// the block sequence as a mix of dictionary references and literal entries.
package blockstream

import (
	"encoding/binary"
	"sort"

	"github.com/JLSteenwyk/ecomp/bitmask"
	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/format"
	"github.com/JLSteenwyk/ecomp/internal/collision"
	"github.com/JLSteenwyk/ecomp/internal/hash"
	"github.com/JLSteenwyk/ecomp/internal/varint"
	"github.com/JLSteenwyk/ecomp/residue"
	"github.com/JLSteenwyk/ecomp/runlength"
)

// maxDictEntries is the largest dictionary the 1-byte dict-count prefix can carry.
const maxDictEntries = 255

// referenceCost is the wire size, in bytes, of a dictionary-reference block entry:
// marker, dict_id, run_length.
const referenceCost = 3

// encodedBlock is one run-length block after its bitmask and residues have each run
// their own mode contest.
type encodedBlock struct {
	src      runlength.Block
	bitmask  bitmask.Encoded
	residue  residue.Encoded
	hashKey  uint64
}

// Encode serializes blocks as a 1-byte dictionary count, the dictionary entries, a
// 4-byte big-endian block count, and the block entries.
func Encode(blocks []runlength.Block) []byte {
	encoded := make([]encodedBlock, len(blocks))
	for i, b := range blocks {
		bm := bitmask.Encode(b.DeviationBitmask)
		res := residue.Encode(b.Residues)
		key := hash.Key(b.Consensus, tripleKeyBytes(bm), res.Payload)
		encoded[i] = encodedBlock{src: b, bitmask: bm, residue: res, hashKey: key}
	}

	tracker := collision.NewTracker()
	resolvedKeys := make([]uint64, len(encoded))
	freq := map[uint64]int{}
	first := map[uint64]encodedBlock{}
	order := []uint64{}
	for i, e := range encoded {
		rk := tracker.Resolve(e.hashKey, e.src.Consensus, tripleKeyBytes(e.bitmask), e.residue.Payload)
		resolvedKeys[i] = rk
		if freq[rk] == 0 {
			first[rk] = e
			order = append(order, rk)
		}
		freq[rk]++
	}

	type candidate struct {
		key   uint64
		entry encodedBlock
		saved int
	}
	candidates := make([]candidate, 0, len(order))
	for _, k := range order {
		e := first[k]
		n := freq[k]
		entryCost := literalBodyCost(e)
		literalCost := entryCost + 1
		saved := n*literalCost - (entryCost + n*referenceCost)
		if saved > 0 {
			candidates = append(candidates, candidate{key: k, entry: e, saved: saved})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].saved > candidates[j].saved })
	if len(candidates) > maxDictEntries {
		candidates = candidates[:maxDictEntries]
	}

	dictID := make(map[uint64]int, len(candidates))
	for i, c := range candidates {
		dictID[c.key] = i
	}

	var dictEntries []byte
	for _, c := range candidates {
		dictEntries = append(dictEntries, marshalLiteralBody(c.entry)...)
	}

	var blockEntries []byte
	for i, e := range encoded {
		if id, ok := dictID[resolvedKeys[i]]; ok {
			blockEntries = append(blockEntries, 1, byte(id), byte(e.src.RunLength))

			continue
		}
		blockEntries = append(blockEntries, 0, byte(e.src.RunLength))
		blockEntries = append(blockEntries, marshalLiteralBody(e)...)
	}

	out := make([]byte, 0, 1+len(dictEntries)+4+len(blockEntries))
	out = append(out, byte(len(candidates)))
	out = append(out, dictEntries...)

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(blocks)))
	out = append(out, countBuf[:]...)
	out = append(out, blockEntries...)

	return out
}

// tripleKeyBytes folds a bitmask's mode into its payload so distinct modes with
// identical payload bytes hash differently.
func tripleKeyBytes(bm bitmask.Encoded) []byte {
	return append([]byte{byte(bm.Mode)}, bm.Payload...)
}

// literalBodyCost is the serialized size, in bytes, of one entry body: consensus,
// bitmask mode+payload, residue mode+payload. It excludes the marker/run_length, which
// are written per occurrence regardless of whether the occurrence is a literal or a
// dictionary reference.
func literalBodyCost(e encodedBlock) int {
	n := 1 // consensus
	n += 1 // bitmask mode
	n += varint.Len(uint64(e.src.DeviationCount()))
	n += varint.Len(uint64(len(e.bitmask.Payload)))
	n += len(e.bitmask.Payload)
	n += 1 // residue mode
	n += varint.Len(uint64(len(e.residue.Payload)))
	n += len(e.residue.Payload)

	return n
}

func marshalLiteralBody(e encodedBlock) []byte {
	out := []byte{e.src.Consensus, byte(e.bitmask.Mode)}
	out = varint.Append(out, uint64(e.src.DeviationCount()))
	out = varint.Append(out, uint64(len(e.bitmask.Payload)))
	out = append(out, e.bitmask.Payload...)
	out = append(out, byte(e.residue.Mode))
	out = varint.Append(out, uint64(len(e.residue.Payload)))
	out = append(out, e.residue.Payload...)

	return out
}

// unmarshalLiteralBody reads one entry body (the marshalLiteralBody layout) from data,
// returning the reconstructed block (RunLength left at zero; the caller fills it in)
// and the number of bytes consumed.
func unmarshalLiteralBody(data []byte, rowCount int) (runlength.Block, int, error) {
	if len(data) < 2 {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	consensus := data[0]
	bmMode := format.BitmaskMode(data[1])
	rest := data[2:]
	consumed := 2

	devCount, n, ok := varint.Read(rest)
	if !ok {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	rest = rest[n:]
	consumed += n

	maskLen, n, ok := varint.Read(rest)
	if !ok {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	rest = rest[n:]
	consumed += n

	if uint64(len(rest)) < maskLen {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	maskPayload := rest[:maskLen]
	rest = rest[maskLen:]
	consumed += int(maskLen)

	if len(rest) < 1 {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	resMode := format.ResidueMode(rest[0])
	rest = rest[1:]
	consumed++

	resLen, n, ok := varint.Read(rest)
	if !ok {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	rest = rest[n:]
	consumed += n

	if uint64(len(rest)) < resLen {
		return runlength.Block{}, 0, errs.Format(errs.ErrTruncated)
	}
	resPayload := rest[:resLen]
	consumed += int(resLen)

	bits, err := bitmask.Decode(bmMode, maskPayload, rowCount)
	if err != nil {
		return runlength.Block{}, 0, err
	}
	residues, err := residue.Decode(resMode, resPayload, int(devCount))
	if err != nil {
		return runlength.Block{}, 0, err
	}

	return runlength.Block{Consensus: consensus, DeviationBitmask: bits, Residues: residues}, consumed, nil
}

// Decode reverses Encode, given the frame's row count (needed to size each block's
// bitmask).
func Decode(data []byte, rowCount int) ([]runlength.Block, error) {
	if len(data) < 1 {
		return nil, errs.Format(errs.ErrTruncated)
	}
	dictCount := int(data[0])
	data = data[1:]

	dict := make([]runlength.Block, dictCount)
	for i := 0; i < dictCount; i++ {
		blk, n, err := unmarshalLiteralBody(data, rowCount)
		if err != nil {
			return nil, err
		}
		dict[i] = blk
		data = data[n:]
	}

	if len(data) < 4 {
		return nil, errs.Format(errs.ErrTruncated)
	}
	blockCount := binary.BigEndian.Uint32(data)
	data = data[4:]

	blocks := make([]runlength.Block, 0, blockCount)
	for i := uint32(0); i < blockCount; i++ {
		if len(data) < 1 {
			return nil, errs.Format(errs.ErrTruncated)
		}
		marker := data[0]
		data = data[1:]

		if marker == 1 {
			if len(data) < 2 {
				return nil, errs.Format(errs.ErrTruncated)
			}
			dictID := int(data[0])
			runLen := int(data[1])
			data = data[2:]
			if dictID >= len(dict) {
				return nil, errs.Format(errs.ErrDictionaryReference)
			}
			blk := dict[dictID]
			blk.RunLength = runLen
			blocks = append(blocks, blk)

			continue
		}

		if len(data) < 1 {
			return nil, errs.Format(errs.ErrTruncated)
		}
		runLen := int(data[0])
		data = data[1:]

		blk, n, err := unmarshalLiteralBody(data, rowCount)
		if err != nil {
			return nil, err
		}
		blk.RunLength = runLen
		blocks = append(blocks, blk)
		data = data[n:]
	}

	return blocks, nil
}
