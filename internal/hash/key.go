// Package hash provides the fast non-cryptographic hash used to key the block-stream
// dictionary: candidate (consensus, bitmask, residues) triples are deduplicated by
// this hash before the frequency-based dictionary is built, so the same triple
// occurring in many run-length blocks counts as one dictionary candidate.
package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of a dictionary candidate triple: the consensus byte
// followed by the serialized bitmask and the serialized residue bytes. It is used
// purely for frequency counting and dictionary lookup; genuine equality is always
// re-checked by the caller (see internal/collision) because xxHash64 is not
// collision-free.
func Key(consensus byte, bitmask []byte, residues []byte) uint64 {
	d := xxhash.New()
	d.Write([]byte{consensus})
	d.Write(bitmask)
	d.Write(residues)

	return d.Sum64()
}
